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
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/ledger"
)

type LedgerUseCaseCfg struct {
	Repo     ledger.Repo
	Auctions auction.UseCase
	Notifier event.Notifier
	Metrics  metrics.Service
	Now      func() time.Time
}

type impl struct {
	// mu makes the read, compare and write of one bid a single step
	mu       sync.Mutex
	repo     ledger.Repo
	auctions auction.UseCase
	notifier event.Notifier
	met      metrics.Service
	now      func() time.Time
}

func New(cfg *LedgerUseCaseCfg) ledger.UseCase {
	im := &impl{
		repo:     cfg.Repo,
		auctions: cfg.Auctions,
		notifier: cfg.Notifier,
		met:      cfg.Metrics,
		now:      cfg.Now,
	}
	if im.met == nil {
		im.met = metrics.NewLogMetrics("ledger")
	}
	if im.now == nil {
		im.now = time.Now
	}
	return im
}

// find returns an empty entry for bidders that never bid
func (im *impl) find(ctx bCtx.Ctx, id auction.Id, bidder domain.Address) (*ledger.Entry, error) {
	e, err := im.repo.FindOne(ctx, id, bidder)
	if errors.Is(err, domain.ErrNotFound) {
		return &ledger.Entry{AuctionId: id, Bidder: bidder.ToLower(), Amount: decimal.Zero}, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "bidder": bidder, "err": err}).Error("repo.FindOne failed")
		return nil, err
	}
	return e, nil
}

func (im *impl) PlaceBid(ctx bCtx.Ctx, id auction.Id, bidder domain.Address, valueSent decimal.Decimal) (decimal.Decimal, error) {
	defer im.met.BumpTime("bid.time").End()

	if !bidder.IsValid() {
		return decimal.Zero, xerrors.Errorf("%w: bidder %q", domain.ErrInvalidInput, bidder)
	}
	if !valueSent.IsPositive() || !valueSent.IsInteger() {
		return decimal.Zero, xerrors.Errorf("%w: value %s", domain.ErrInvalidInput, valueSent)
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	a, err := im.auctions.ExpireIfDue(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if !a.IsActive {
		return decimal.Zero, domain.ErrAuctionAlreadyClosed
	}
	if a.IsOwner(bidder) {
		return decimal.Zero, domain.ErrNotEligible
	}

	prev, err := im.find(ctx, id, bidder)
	if err != nil {
		return decimal.Zero, err
	}

	candidate := prev.Amount.Add(valueSent)
	if !a.HasBids() {
		if valueSent.LessThan(a.StartPrice) {
			im.met.BumpSum("bid.rejected", 1, "reason", "floor")
			return decimal.Zero, domain.ErrBidTooLow
		}
	} else if !candidate.GreaterThan(a.HighestBid) {
		im.met.BumpSum("bid.rejected", 1, "reason", "outbid")
		return decimal.Zero, domain.ErrBidTooLow
	}

	now := im.now()
	next := &ledger.Entry{AuctionId: id, Bidder: bidder.ToLower(), Amount: candidate, UpdatedAt: now}
	if err := im.repo.Upsert(ctx, next); err != nil {
		ctx.WithFields(log.Fields{"entry": next, "err": err}).Error("repo.Upsert failed")
		return decimal.Zero, err
	}
	if err := im.auctions.RecordBid(ctx, id, bidder, candidate); err != nil {
		ctx.WithFields(log.Fields{"id": id, "bidder": bidder, "err": err}).Warn("auctions.RecordBid failed, restoring entry")
		if rerr := im.repo.Upsert(ctx, prev); rerr != nil {
			ctx.WithFields(log.Fields{"entry": prev, "err": rerr}).Error("repo.Upsert restore failed")
			return decimal.Zero, xerrors.Errorf("%w: restore failed: %v", err, rerr)
		}
		return decimal.Zero, err
	}

	im.notifier.Notify(ctx, event.New(event.TypeBidPlaced, id, bidder.ToLower(), candidate, now))
	im.met.BumpSum("bid.placed", 1)
	return candidate, nil
}

func (im *impl) GetBid(ctx bCtx.Ctx, id auction.Id, bidder domain.Address) (decimal.Decimal, error) {
	e, err := im.find(ctx, id, bidder)
	if err != nil {
		return decimal.Zero, err
	}
	return e.Amount, nil
}

func (im *impl) Zero(ctx bCtx.Ctx, id auction.Id, bidder domain.Address) (*ledger.Entry, error) {
	prev, err := im.find(ctx, id, bidder)
	if err != nil {
		return nil, err
	}

	zeroed := *prev
	zeroed.Amount = decimal.Zero
	zeroed.UpdatedAt = im.now()
	if err := im.repo.Upsert(ctx, &zeroed); err != nil {
		ctx.WithFields(log.Fields{"entry": zeroed, "err": err}).Error("repo.Upsert failed")
		return nil, err
	}
	return prev, nil
}

func (im *impl) Restore(ctx bCtx.Ctx, e *ledger.Entry) error {
	if err := im.repo.Upsert(ctx, e); err != nil {
		ctx.WithFields(log.Fields{"entry": e, "err": err}).Error("repo.Upsert failed")
		return err
	}
	return nil
}
