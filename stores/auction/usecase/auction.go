package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/base/validator"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/asset"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/ledger"
)

type AuctionUseCaseCfg struct {
	Repo          auction.Repo
	Participation auction.ParticipationRepo
	// LedgerRepo is read to confirm recorded amounts match the escrow
	LedgerRepo ledger.Repo
	Assets     asset.Registry
	Notifier   event.Notifier
	Validator  *validator.CustomValidator
	// Custody is the engine account holding auctioned items
	Custody domain.Address
	Metrics metrics.Service
	Now     func() time.Time
}

type impl struct {
	// mu serializes read-modify-write of auction records, it is never held across collaborator calls
	mu            sync.Mutex
	repo          auction.Repo
	participation auction.ParticipationRepo
	ledgerRepo    ledger.Repo
	assets        asset.Registry
	notifier      event.Notifier
	validator     *validator.CustomValidator
	custody       domain.Address
	met           metrics.Service
	now           func() time.Time
}

func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	im := &impl{
		repo:          cfg.Repo,
		participation: cfg.Participation,
		ledgerRepo:    cfg.LedgerRepo,
		assets:        cfg.Assets,
		notifier:      cfg.Notifier,
		validator:     cfg.Validator,
		custody:       cfg.Custody.ToLower(),
		met:           cfg.Metrics,
		now:           cfg.Now,
	}
	if im.validator == nil {
		im.validator = validator.New()
	}
	if im.met == nil {
		im.met = metrics.NewLogMetrics("auction")
	}
	if im.now == nil {
		im.now = time.Now
	}
	return im
}

func (im *impl) Create(ctx bCtx.Ctx, p *auction.CreateParams) (auction.Id, error) {
	defer im.met.BumpTime("create.time").End()

	if p == nil {
		return 0, domain.ErrInvalidInput
	}
	if err := im.validator.Validate(p); err != nil {
		ctx.WithFields(log.Fields{"params": p, "err": err}).Warn("invalid create params")
		return 0, xerrors.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	creator := p.Creator.ToLower()

	// the asset must sit in custody before the record exists, records are never removed
	item, err := im.assets.Mint(ctx, creator)
	if err != nil {
		ctx.WithFields(log.Fields{"creator": creator, "err": err}).Error("assets.Mint failed")
		return 0, xerrors.Errorf("mint: %w", err)
	}
	if err := im.assets.SetMetadata(ctx, item, p.MetadataUri); err != nil {
		ctx.WithFields(log.Fields{"item": item, "err": err}).Error("assets.SetMetadata failed")
		return 0, xerrors.Errorf("set metadata: %w", err)
	}
	if !im.assets.Transfer(ctx, item, creator, im.custody) {
		ctx.WithFields(log.Fields{"item": item, "creator": creator}).Error("assets.Transfer to custody failed")
		im.met.BumpSum("create.err", 1, "reason", "custody")
		return 0, domain.ErrAssetTransferFailed
	}

	id, err := im.repo.NextId(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("repo.NextId failed")
		im.release(ctx, item, creator)
		return 0, err
	}

	now := im.now()
	a := &auction.Auction{
		Id:           id,
		Owner:        creator,
		ItemId:       item,
		MetadataUri:  p.MetadataUri,
		StartPrice:   p.StartPrice,
		StartTime:    now,
		EndTime:      now.Add(p.Duration),
		HighestBid:   decimal.Zero,
		IsActive:     true,
		Proceeds:     decimal.Zero,
		Participants: []domain.Address{},
	}
	if err := im.repo.Create(ctx, a); err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("repo.Create failed")
		im.release(ctx, item, creator)
		return 0, err
	}
	im.index(ctx, creator, id)

	im.notifier.Notify(ctx, event.New(event.TypeAuctionCreated, id, creator, p.StartPrice, now).WithItem(item))
	im.met.BumpSum("created", 1)
	return id, nil
}

// release hands a custodied item back to its creator when no record could be written for it.
func (im *impl) release(ctx bCtx.Ctx, item domain.ItemId, creator domain.Address) {
	if !im.assets.Transfer(ctx, item, im.custody, creator) {
		ctx.WithFields(log.Fields{"item": item, "creator": creator}).Error("assets.Transfer back to creator failed")
		im.met.BumpSum("create.err", 1, "reason", "release")
	}
}

// index appends to the participation index. The index is derived data, a failure is logged only.
func (im *impl) index(ctx bCtx.Ctx, account domain.Address, id auction.Id) {
	if err := im.participation.Append(ctx, account, id); err != nil {
		ctx.WithFields(log.Fields{"account": account, "id": id, "err": err}).Warn("participation.Append failed")
		im.met.BumpSum("index.err", 1)
	}
}

func (im *impl) RecordBid(ctx bCtx.Ctx, id auction.Id, bidder domain.Address, cumulative decimal.Decimal) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	a, err := im.repo.FindOne(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("repo.FindOne failed")
		return err
	}
	if a.Phase(im.now()) == auction.PhaseClosed {
		return domain.ErrAuctionAlreadyClosed
	}
	if a.IsOwner(bidder) {
		return domain.ErrNotEligible
	}

	entry, err := im.ledgerRepo.FindOne(ctx, id, bidder)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "bidder": bidder, "err": err}).Error("ledgerRepo.FindOne failed")
		return err
	}
	if !entry.Amount.Equal(cumulative) {
		ctx.WithFields(log.Fields{"id": id, "bidder": bidder, "ledger": entry.Amount, "cumulative": cumulative}).Error("cumulative does not match ledger")
		return xerrors.Errorf("%w: cumulative %s does not match escrow %s", domain.ErrInvalidInput, cumulative, entry.Amount)
	}

	switch {
	case !a.HasBids() && cumulative.LessThan(a.StartPrice):
		return domain.ErrBidTooLow
	case a.HasBids() && !cumulative.GreaterThan(a.HighestBid):
		return domain.ErrBidTooLow
	}
	a.HighestBid = cumulative
	a.HighestBidder = bidder.ToLower()
	isNew := a.AddParticipant(bidder)

	if err := im.repo.Update(ctx, a); err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("repo.Update failed")
		return err
	}
	if isNew {
		im.index(ctx, bidder.ToLower(), id)
	}
	return nil
}

func (im *impl) ExpireIfDue(ctx bCtx.Ctx, id auction.Id) (*auction.Auction, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	a, err := im.repo.FindOne(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			ctx.WithFields(log.Fields{"id": id, "err": err}).Error("repo.FindOne failed")
		}
		return nil, err
	}

	now := im.now()
	if !a.IsDue(now) {
		return a, nil
	}

	a.IsActive = false
	if err := im.repo.Update(ctx, a); err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("repo.Update failed")
		return nil, err
	}

	im.notifier.Notify(ctx, event.New(event.TypeAuctionClosed, id, a.HighestBidder, a.HighestBid, now).WithItem(a.ItemId))
	im.met.BumpSum("closed", 1)
	return a, nil
}

func (im *impl) FindOne(ctx bCtx.Ctx, id auction.Id) (*auction.Auction, error) {
	a, err := im.repo.FindOne(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			ctx.WithFields(log.Fields{"id": id, "err": err}).Error("repo.FindOne failed")
		}
		return nil, err
	}
	return a.View(im.now()), nil
}

func (im *impl) FindAll(ctx bCtx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	as, err := im.repo.FindAll(ctx, optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}

	now := im.now()
	res := make([]*auction.Auction, 0, len(as))
	for _, a := range as {
		res = append(res, a.View(now))
	}
	return res, nil
}

func (im *impl) FindByAccount(ctx bCtx.Ctx, account domain.Address) ([]*auction.Auction, error) {
	ids, err := im.participation.FindByAccount(ctx, account)
	if err != nil {
		ctx.WithFields(log.Fields{"account": account, "err": err}).Error("participation.FindByAccount failed")
		return nil, err
	}

	res := make([]*auction.Auction, 0, len(ids))
	for _, id := range ids {
		a, err := im.FindOne(ctx, id)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}

func (im *impl) TimeRemaining(ctx bCtx.Ctx, id auction.Id) (time.Duration, error) {
	a, err := im.repo.FindOne(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			ctx.WithFields(log.Fields{"id": id, "err": err}).Error("repo.FindOne failed")
		}
		return 0, err
	}
	return a.TimeRemaining(im.now()), nil
}
