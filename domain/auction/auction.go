package auction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
)

type Id int64

type Phase string

const (
	PhaseOpen   Phase = "open"
	PhaseClosed Phase = "closed"
)

type Auction struct {
	Id          Id              `json:"id"`
	Owner       domain.Address  `json:"owner"`
	ItemId      domain.ItemId   `json:"itemId"`
	MetadataUri string          `json:"metadataUri"`
	StartPrice  decimal.Decimal `json:"startPrice"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`

	// leader, zero HighestBid with a non-empty HighestBidder means proceeds were paid out
	HighestBid    decimal.Decimal `json:"highestBid"`
	HighestBidder domain.Address  `json:"highestBidder"`

	IsActive      bool            `json:"isActive"`
	OwnerSettled  bool            `json:"ownerSettled"`
	WinnerSettled bool            `json:"winnerSettled"`
	Proceeds      decimal.Decimal `json:"proceeds"`

	Participants []domain.Address `json:"participants"`
}

// Phase derives open/closed from the deadline without mutating the record.
func (a *Auction) Phase(now time.Time) Phase {
	if a.IsActive && !now.After(a.EndTime) {
		return PhaseOpen
	}
	return PhaseClosed
}

// IsDue reports whether ExpireIfDue would close the auction at now.
func (a *Auction) IsDue(now time.Time) bool {
	return a.IsActive && now.After(a.EndTime)
}

func (a *Auction) HasBids() bool {
	return !a.HighestBidder.IsEmpty()
}

func (a *Auction) IsOwner(account domain.Address) bool {
	return a.Owner.Equals(account)
}

func (a *Auction) IsLeader(account domain.Address) bool {
	return a.HasBids() && a.HighestBidder.Equals(account)
}

func (a *Auction) IsParticipant(account domain.Address) bool {
	for _, p := range a.Participants {
		if p.Equals(account) {
			return true
		}
	}
	return false
}

// AddParticipant keeps first-bid order and returns false when already present.
func (a *Auction) AddParticipant(account domain.Address) bool {
	if a.IsParticipant(account) {
		return false
	}
	a.Participants = append(a.Participants, account.ToLower())
	return true
}

func (a *Auction) TimeRemaining(now time.Time) time.Duration {
	if a.Phase(now) == PhaseClosed {
		return 0
	}
	return a.EndTime.Sub(now)
}

// View is the read model: the stored record with the phase applied at now.
func (a *Auction) View(now time.Time) *Auction {
	v := a.Clone()
	if v.IsDue(now) {
		v.IsActive = false
	}
	return v
}

func (a *Auction) Clone() *Auction {
	c := *a
	c.Participants = make([]domain.Address, len(a.Participants))
	copy(c.Participants, a.Participants)
	return &c
}

type CreateParams struct {
	Creator     domain.Address  `validate:"required,eth_addr"`
	StartPrice  decimal.Decimal `validate:"amount_pos"`
	Duration    time.Duration   `validate:"gt=0"`
	MetadataUri string          `validate:"not_blank"`
}

type Repo interface {
	// NextId reserves the next monotonic auction id, starting from 1
	NextId(ctx.Ctx) (Id, error)
	Create(ctx.Ctx, *Auction) error
	// FindOne returns domain.ErrNotFound for unknown ids
	FindOne(ctx.Ctx, Id) (*Auction, error)
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]*Auction, error)
	// Update replaces the stored record, auctions are never removed
	Update(ctx.Ctx, *Auction) error
}

// ParticipationRepo is the per-account reverse index, derived data only
type ParticipationRepo interface {
	// Append is idempotent per (account, id)
	Append(ctx.Ctx, domain.Address, Id) error
	FindByAccount(ctx.Ctx, domain.Address) ([]Id, error)
}

type UseCase interface {
	Create(ctx.Ctx, *CreateParams) (Id, error)
	RecordBid(c ctx.Ctx, id Id, bidder domain.Address, cumulative decimal.Decimal) error
	ExpireIfDue(ctx.Ctx, Id) (*Auction, error)

	FindOne(ctx.Ctx, Id) (*Auction, error)
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]*Auction, error)
	FindByAccount(ctx.Ctx, domain.Address) ([]*Auction, error)
	TimeRemaining(ctx.Ctx, Id) (time.Duration, error)
}
