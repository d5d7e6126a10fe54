package asset

import (
	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
)

// Registry mints auctioned items and moves their ownership.
type Registry interface {
	Mint(c ctx.Ctx, owner domain.Address) (domain.ItemId, error)
	SetMetadata(c ctx.Ctx, item domain.ItemId, uri string) error
	// Transfer reports false when the registry refused the move, the call may be retried
	Transfer(c ctx.Ctx, item domain.ItemId, from, to domain.Address) bool
}
