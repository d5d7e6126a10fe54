package assetregistry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
)

var (
	mockCtx = ctx.Background()
	alice   = domain.Address("0x00000000000000000000000000000000000000A1")
	bob     = domain.Address("0x00000000000000000000000000000000000000b2")
)

func TestMintAndTransfer(t *testing.T) {
	req := require.New(t)
	r := New()

	item, err := r.Mint(mockCtx, alice)
	req.NoError(err)
	req.Equal(domain.ItemId("item-1"), item)
	owner, ok := r.OwnerOf(item)
	req.True(ok)
	req.True(owner.Equals(alice))

	req.NoError(r.SetMetadata(mockCtx, item, "ipfs://meta"))
	req.Equal("ipfs://meta", r.Metadata(item))
	req.ErrorIs(r.SetMetadata(mockCtx, "item-9", "x"), domain.ErrNotFound)

	// only the holder may move the item
	req.False(r.Transfer(mockCtx, item, bob, bob))
	req.True(r.Transfer(mockCtx, item, alice, bob))
	owner, _ = r.OwnerOf(item)
	req.Equal(bob, owner)

	_, err = r.Mint(mockCtx, "nobody")
	req.ErrorIs(err, domain.ErrInvalidInput)
}

func TestRefuse(t *testing.T) {
	req := require.New(t)
	r := New()
	item, err := r.Mint(mockCtx, alice)
	req.NoError(err)

	r.Refuse(bob, true)
	req.False(r.Transfer(mockCtx, item, alice, bob))
	owner, _ := r.OwnerOf(item)
	req.True(owner.Equals(alice))

	r.Refuse(bob, false)
	req.True(r.Transfer(mockCtx, item, alice, bob))
}

func TestOnMove(t *testing.T) {
	req := require.New(t)
	r := New()
	item, err := r.Mint(mockCtx, alice)
	req.NoError(err)

	moved := []domain.Address{}
	r.OnMove(func(_ ctx.Ctx, got domain.ItemId, to domain.Address) {
		req.Equal(item, got)
		// the registry lock is released while the hook runs
		owner, _ := r.OwnerOf(got)
		req.Equal(to.ToLower(), owner)
		moved = append(moved, to)
	})
	req.True(r.Transfer(mockCtx, item, alice, bob))
	req.Equal([]domain.Address{bob}, moved)
}
