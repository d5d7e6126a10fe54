package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
)

// Entry is the cumulative escrowed amount of one bidder on one auction.
// It only grows while the auction is open and is zeroed, never removed, when consumed.
type Entry struct {
	AuctionId auction.Id      `json:"auctionId"`
	Bidder    domain.Address  `json:"bidder"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (e *Entry) IsEmpty() bool {
	return !e.Amount.IsPositive()
}

type Repo interface {
	// FindOne returns domain.ErrNotFound when the bidder never bid on the auction
	FindOne(c ctx.Ctx, id auction.Id, bidder domain.Address) (*Entry, error)
	Upsert(ctx.Ctx, *Entry) error
	FindAllByAuction(ctx.Ctx, auction.Id) ([]*Entry, error)
}

type UseCase interface {
	// PlaceBid escrows valueSent on top of the bidder's standing amount and returns the new cumulative amount
	PlaceBid(c ctx.Ctx, id auction.Id, bidder domain.Address, valueSent decimal.Decimal) (decimal.Decimal, error)
	// GetBid returns zero for bidders without an entry
	GetBid(c ctx.Ctx, id auction.Id, bidder domain.Address) (decimal.Decimal, error)
	// Zero empties the bidder's entry and returns the prior snapshot for Restore
	Zero(c ctx.Ctx, id auction.Id, bidder domain.Address) (*Entry, error)
	Restore(ctx.Ctx, *Entry) error
}
