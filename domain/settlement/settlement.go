package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
)

type Branch string

const (
	BranchOwnerNoBids   Branch = "owner_no_bids"
	BranchOwnerProceeds Branch = "owner_proceeds"
	BranchWinner        Branch = "winner"
	BranchRefund        Branch = "refund"
)

// Receipt describes what a successful Settle released to the caller.
type Receipt struct {
	AuctionId auction.Id      `json:"auctionId"`
	Caller    domain.Address  `json:"caller"`
	Branch    Branch          `json:"branch"`
	Amount    decimal.Decimal `json:"amount"`
	ItemId    domain.ItemId   `json:"itemId,omitempty"`
}

// SelectBranch picks the single settlement path open to caller on a closed auction.
// balance is the caller's ledger amount on that auction.
//
// Precedence: owner without bids, owner with bids, winner, losing bidder.
func SelectBranch(a *auction.Auction, caller domain.Address, balance decimal.Decimal) (Branch, error) {
	switch {
	case a.IsOwner(caller):
		if a.OwnerSettled {
			return "", domain.ErrAlreadySettled
		}
		if !a.HasBids() {
			return BranchOwnerNoBids, nil
		}
		return BranchOwnerProceeds, nil
	case a.IsLeader(caller):
		if a.WinnerSettled {
			return "", domain.ErrAlreadySettled
		}
		return BranchWinner, nil
	case a.IsParticipant(caller):
		if !balance.IsPositive() {
			return "", domain.ErrNothingToWithdraw
		}
		return BranchRefund, nil
	}
	return "", domain.ErrNotEligible
}

type UseCase interface {
	Settle(c ctx.Ctx, id auction.Id, caller domain.Address) (*Receipt, error)
	// Escrowed is the value still held for unsettled parties: unpaid proceeds
	// plus every losing bidder's balance
	Escrowed(ctx.Ctx, auction.Id) (decimal.Decimal, error)
}
