package auctionhouse

import (
	"time"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/ledger"
	"github.com/x-xyz/settlement/domain/settlement"
)

type ServiceCfg struct {
	Auctions   auction.UseCase
	Ledger     ledger.UseCase
	Settlement settlement.UseCase
	Notifier   event.Notifier
	// Journal is optional, History is empty without it
	Journal event.Journal
	Metrics metrics.Service
}

type impl struct {
	auctions   auction.UseCase
	ledger     ledger.UseCase
	settlement settlement.UseCase
	notifier   event.Notifier
	journal    event.Journal
	met        metrics.Service
}

func New(cfg *ServiceCfg) Service {
	im := &impl{
		auctions:   cfg.Auctions,
		ledger:     cfg.Ledger,
		settlement: cfg.Settlement,
		notifier:   cfg.Notifier,
		journal:    cfg.Journal,
		met:        cfg.Metrics,
	}
	if im.met == nil {
		im.met = metrics.NewLogMetrics("auctionhouse")
	}
	return im
}

func (im *impl) bump(op string, err error) {
	if err != nil {
		im.met.BumpSum("op.err", 1, "op", op, "err", err.Error())
		return
	}
	im.met.BumpSum("op", 1, "op", op)
}

func (im *impl) CreateAuction(c bCtx.Ctx, p *auction.CreateParams) (auction.Id, error) {
	id, err := im.auctions.Create(c, p)
	im.bump("create", err)
	if err != nil {
		return 0, err
	}
	c.WithFields(log.Fields{"id": id, "creator": p.Creator}).Info("auction created")
	return id, nil
}

func (im *impl) Bid(c bCtx.Ctx, id auction.Id, bidder domain.Address, value decimal.Decimal) (decimal.Decimal, error) {
	cumulative, err := im.ledger.PlaceBid(c, id, bidder, value)
	im.bump("bid", err)
	if err != nil {
		c.WithFields(log.Fields{"id": id, "bidder": bidder, "value": value, "err": err}).Info("bid rejected")
		return decimal.Zero, err
	}
	return cumulative, nil
}

func (im *impl) Settle(c bCtx.Ctx, id auction.Id, caller domain.Address) (*settlement.Receipt, error) {
	receipt, err := im.settlement.Settle(c, id, caller)
	im.bump("settle", err)
	if err != nil {
		c.WithFields(log.Fields{"id": id, "caller": caller, "err": err}).Info("settle rejected")
		return nil, err
	}
	return receipt, nil
}

func (im *impl) GetAuction(c bCtx.Ctx, id auction.Id) (*auction.Auction, error) {
	return im.auctions.FindOne(c, id)
}

func (im *impl) GetMyBid(c bCtx.Ctx, id auction.Id, account domain.Address) (decimal.Decimal, error) {
	if _, err := im.auctions.FindOne(c, id); err != nil {
		return decimal.Zero, err
	}
	return im.ledger.GetBid(c, id, account)
}

func (im *impl) ListAuctions(c bCtx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	return im.auctions.FindAll(c, opts...)
}

func (im *impl) ListMyAuctions(c bCtx.Ctx, account domain.Address) ([]*auction.Auction, error) {
	return im.auctions.FindByAccount(c, account)
}

func (im *impl) TimeRemaining(c bCtx.Ctx, id auction.Id) (time.Duration, error) {
	return im.auctions.TimeRemaining(c, id)
}

func (im *impl) Escrowed(c bCtx.Ctx, id auction.Id) (decimal.Decimal, error) {
	return im.settlement.Escrowed(c, id)
}

func (im *impl) History(c bCtx.Ctx, id auction.Id) ([]*event.Event, error) {
	if _, err := im.auctions.FindOne(c, id); err != nil {
		return nil, err
	}
	if im.journal == nil {
		return []*event.Event{}, nil
	}
	im.notifier.Flush()
	return im.journal.FindByAuction(c, id)
}

// Close stops event delivery, then closes the journal
func (im *impl) Close() error {
	if err := im.notifier.Close(); err != nil {
		return err
	}
	if im.journal != nil {
		return im.journal.Close()
	}
	return nil
}
