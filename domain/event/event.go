package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
)

type Type string

const (
	TypeAuctionCreated Type = "auction_created"
	TypeBidPlaced      Type = "bid_placed"
	TypeAuctionClosed  Type = "auction_closed"
	TypeOwnerPaid      Type = "owner_paid"
	TypeAssetReturned  Type = "asset_returned"
	TypeAssetClaimed   Type = "asset_claimed"
	TypeBidRefunded    Type = "bid_refunded"
)

type Event struct {
	Id        string          `json:"id"`
	Type      Type            `json:"type"`
	AuctionId auction.Id      `json:"auctionId"`
	Account   domain.Address  `json:"account"`
	Amount    decimal.Decimal `json:"amount"`
	ItemId    domain.ItemId   `json:"itemId,omitempty"`
	Time      time.Time       `json:"time"`
}

func New(typ Type, id auction.Id, account domain.Address, amount decimal.Decimal, at time.Time) *Event {
	return &Event{
		Id:        uuid.NewString(),
		Type:      typ,
		AuctionId: id,
		Account:   account,
		Amount:    amount,
		Time:      at,
	}
}

func (e *Event) WithItem(item domain.ItemId) *Event {
	e.ItemId = item
	return e
}

// Sink receives every event, e.g. a pub/sub channel or an audit journal.
type Sink interface {
	Name() string
	Write(ctx.Ctx, *Event) error
}

// Notifier emits events without blocking or failing the emitting operation.
type Notifier interface {
	Notify(ctx.Ctx, *Event)
	// Flush blocks until every event notified so far reached the sinks
	Flush()
	Close() error
}

// Journal is a Sink that keeps every event for later reads.
type Journal interface {
	Sink
	// FindByAuction returns the events of one auction in emission order
	FindByAuction(c ctx.Ctx, id auction.Id) ([]*Event, error)
	Close() error
}
