// Package auctionhouse is the public operation surface of the engine.
package auctionhouse

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/settlement"
)

type Service interface {
	CreateAuction(ctx.Ctx, *auction.CreateParams) (auction.Id, error)
	// Bid escrows value on top of the bidder's standing amount and returns the new cumulative amount
	Bid(c ctx.Ctx, id auction.Id, bidder domain.Address, value decimal.Decimal) (decimal.Decimal, error)
	Settle(c ctx.Ctx, id auction.Id, caller domain.Address) (*settlement.Receipt, error)

	GetAuction(ctx.Ctx, auction.Id) (*auction.Auction, error)
	GetMyBid(c ctx.Ctx, id auction.Id, account domain.Address) (decimal.Decimal, error)
	ListAuctions(ctx.Ctx, ...auction.FindAllOptionsFunc) ([]*auction.Auction, error)
	// ListMyAuctions returns the auctions account created or bid on, in participation order
	ListMyAuctions(ctx.Ctx, domain.Address) ([]*auction.Auction, error)
	TimeRemaining(ctx.Ctx, auction.Id) (time.Duration, error)
	Escrowed(ctx.Ctx, auction.Id) (decimal.Decimal, error)
	// History returns the journaled events of one auction, once every pending event was delivered
	History(ctx.Ctx, auction.Id) ([]*event.Event, error)

	Close() error
}
