package usecase

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/asset"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/ledger"
	"github.com/x-xyz/settlement/domain/payment"
	"github.com/x-xyz/settlement/domain/settlement"
)

type SettlementUseCaseCfg struct {
	Auctions    auction.UseCase
	AuctionRepo auction.Repo
	Ledger      ledger.UseCase
	LedgerRepo  ledger.Repo
	Assets      asset.Registry
	Payments    payment.Rail
	Notifier    event.Notifier
	Custody     domain.Address
	Metrics     metrics.Service
	Now         func() time.Time
}

type impl struct {
	auctions    auction.UseCase
	auctionRepo auction.Repo
	ledger      ledger.UseCase
	ledgerRepo  ledger.Repo
	assets      asset.Registry
	payments    payment.Rail
	notifier    event.Notifier
	custody     domain.Address
	met         metrics.Service
	now         func() time.Time

	guardMu  sync.Mutex
	inFlight map[auction.Id]struct{}
}

func New(cfg *SettlementUseCaseCfg) settlement.UseCase {
	im := &impl{
		auctions:    cfg.Auctions,
		auctionRepo: cfg.AuctionRepo,
		ledger:      cfg.Ledger,
		ledgerRepo:  cfg.LedgerRepo,
		assets:      cfg.Assets,
		payments:    cfg.Payments,
		notifier:    cfg.Notifier,
		custody:     cfg.Custody.ToLower(),
		met:         cfg.Metrics,
		now:         cfg.Now,
		inFlight:    map[auction.Id]struct{}{},
	}
	if im.met == nil {
		im.met = metrics.NewLogMetrics("settlement")
	}
	if im.now == nil {
		im.now = time.Now
	}
	return im
}

// enter marks a settlement of id as in flight, false while another one has not returned
func (im *impl) enter(id auction.Id) bool {
	im.guardMu.Lock()
	defer im.guardMu.Unlock()
	if _, ok := im.inFlight[id]; ok {
		return false
	}
	im.inFlight[id] = struct{}{}
	return true
}

func (im *impl) leave(id auction.Id) {
	im.guardMu.Lock()
	defer im.guardMu.Unlock()
	delete(im.inFlight, id)
}

func (im *impl) Settle(ctx bCtx.Ctx, id auction.Id, caller domain.Address) (*settlement.Receipt, error) {
	if !im.enter(id) {
		ctx.WithFields(log.Fields{"id": id, "caller": caller}).Warn("nested settle rejected")
		im.met.BumpSum("settle.err", 1, "reason", "reentrant")
		return nil, domain.ErrReentrantCall
	}
	defer im.leave(id)
	defer im.met.BumpTime("settle.time").End()

	a, err := im.auctions.ExpireIfDue(ctx, id)
	if err != nil {
		return nil, err
	}
	// ExpireIfDue already judged the deadline, its record is the phase
	if a.IsActive {
		return nil, domain.ErrAuctionStillOpen
	}

	balance, err := im.ledger.GetBid(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	branch, err := settlement.SelectBranch(a, caller, balance)
	if err != nil {
		im.met.BumpSum("settle.rejected", 1, "reason", err.Error())
		return nil, err
	}

	ctx = bCtx.WithLogFields(ctx, log.Fields{"id": id, "caller": caller, "branch": branch})

	var receipt *settlement.Receipt
	switch branch {
	case settlement.BranchOwnerNoBids:
		receipt, err = im.returnAsset(ctx, a)
	case settlement.BranchOwnerProceeds:
		receipt, err = im.payOwner(ctx, a)
	case settlement.BranchWinner:
		receipt, err = im.claimAsset(ctx, a, caller)
	case settlement.BranchRefund:
		receipt, err = im.refund(ctx, a, caller)
	}
	if err != nil {
		im.met.BumpSum("settle.err", 1, "branch", string(branch))
		return nil, err
	}

	im.met.BumpSum("settled", 1, "branch", string(branch))
	return receipt, nil
}

// rollbackAuction puts back the record written before a refused external call
func (im *impl) rollbackAuction(ctx bCtx.Ctx, snapshot *auction.Auction, cause error) error {
	if err := im.auctionRepo.Update(ctx, snapshot); err != nil {
		ctx.WithField("err", err).Error("auctionRepo.Update rollback failed")
		return xerrors.Errorf("%w: rollback failed: %v", cause, err)
	}
	return cause
}

func (im *impl) returnAsset(ctx bCtx.Ctx, a *auction.Auction) (*settlement.Receipt, error) {
	snapshot := a.Clone()
	a.OwnerSettled = true
	if err := im.auctionRepo.Update(ctx, a); err != nil {
		ctx.WithField("err", err).Error("auctionRepo.Update failed")
		return nil, err
	}

	if !im.assets.Transfer(ctx, a.ItemId, im.custody, a.Owner) {
		ctx.Warn("assets.Transfer back to owner refused")
		return nil, im.rollbackAuction(ctx, snapshot, domain.ErrAssetTransferFailed)
	}

	im.notifier.Notify(ctx, event.New(event.TypeAssetReturned, a.Id, a.Owner, decimal.Zero, im.now()).WithItem(a.ItemId))
	return &settlement.Receipt{
		AuctionId: a.Id,
		Caller:    a.Owner,
		Branch:    settlement.BranchOwnerNoBids,
		Amount:    decimal.Zero,
		ItemId:    a.ItemId,
	}, nil
}

func (im *impl) payOwner(ctx bCtx.Ctx, a *auction.Auction) (*settlement.Receipt, error) {
	snapshot := a.Clone()
	amount := a.HighestBid
	// flag and zeroing land together, before the rail is called
	a.OwnerSettled = true
	a.HighestBid = decimal.Zero
	a.Proceeds = amount
	if err := im.auctionRepo.Update(ctx, a); err != nil {
		ctx.WithField("err", err).Error("auctionRepo.Update failed")
		return nil, err
	}

	if !im.payments.Send(ctx, a.Owner, amount) {
		ctx.WithField("amount", amount).Warn("payments.Send to owner refused")
		return nil, im.rollbackAuction(ctx, snapshot, domain.ErrPayoutFailed)
	}

	im.notifier.Notify(ctx, event.New(event.TypeOwnerPaid, a.Id, a.Owner, amount, im.now()))
	return &settlement.Receipt{
		AuctionId: a.Id,
		Caller:    a.Owner,
		Branch:    settlement.BranchOwnerProceeds,
		Amount:    amount,
	}, nil
}

func (im *impl) claimAsset(ctx bCtx.Ctx, a *auction.Auction, caller domain.Address) (*settlement.Receipt, error) {
	snapshot := a.Clone()
	a.WinnerSettled = true
	if err := im.auctionRepo.Update(ctx, a); err != nil {
		ctx.WithField("err", err).Error("auctionRepo.Update failed")
		return nil, err
	}
	// the winning escrow is consumed, its value is the owner's proceeds
	consumed, err := im.ledger.Zero(ctx, a.Id, caller)
	if err != nil {
		return nil, im.rollbackAuction(ctx, snapshot, err)
	}

	if !im.assets.Transfer(ctx, a.ItemId, im.custody, caller) {
		ctx.Warn("assets.Transfer to winner refused")
		if rerr := im.ledger.Restore(ctx, consumed); rerr != nil {
			return nil, xerrors.Errorf("%w: rollback failed: %v", domain.ErrAssetTransferFailed, rerr)
		}
		return nil, im.rollbackAuction(ctx, snapshot, domain.ErrAssetTransferFailed)
	}

	im.notifier.Notify(ctx, event.New(event.TypeAssetClaimed, a.Id, caller.ToLower(), consumed.Amount, im.now()).WithItem(a.ItemId))
	return &settlement.Receipt{
		AuctionId: a.Id,
		Caller:    caller.ToLower(),
		Branch:    settlement.BranchWinner,
		Amount:    consumed.Amount,
		ItemId:    a.ItemId,
	}, nil
}

func (im *impl) refund(ctx bCtx.Ctx, a *auction.Auction, caller domain.Address) (*settlement.Receipt, error) {
	prev, err := im.ledger.Zero(ctx, a.Id, caller)
	if err != nil {
		return nil, err
	}

	if !im.payments.Send(ctx, caller, prev.Amount) {
		ctx.WithField("amount", prev.Amount).Warn("payments.Send refund refused")
		if rerr := im.ledger.Restore(ctx, prev); rerr != nil {
			return nil, xerrors.Errorf("%w: rollback failed: %v", domain.ErrPayoutFailed, rerr)
		}
		return nil, domain.ErrPayoutFailed
	}

	im.notifier.Notify(ctx, event.New(event.TypeBidRefunded, a.Id, caller.ToLower(), prev.Amount, im.now()))
	return &settlement.Receipt{
		AuctionId: a.Id,
		Caller:    caller.ToLower(),
		Branch:    settlement.BranchRefund,
		Amount:    prev.Amount,
	}, nil
}

func (im *impl) Escrowed(ctx bCtx.Ctx, id auction.Id) (decimal.Decimal, error) {
	a, err := im.auctions.FindOne(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	entries, err := im.ledgerRepo.FindAllByAuction(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("ledgerRepo.FindAllByAuction failed")
		return decimal.Zero, err
	}

	total := a.HighestBid
	for _, e := range entries {
		if a.IsLeader(e.Bidder) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total, nil
}
