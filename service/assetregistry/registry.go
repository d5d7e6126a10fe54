// Package assetregistry is an in-process asset.Registry: it mints sequential item ids and
// tracks the current holder of each item.
package assetregistry

import (
	"strconv"
	"sync"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/domain"
)

type Registry struct {
	mu       sync.RWMutex
	seq      int64
	owners   map[domain.ItemId]domain.Address
	metadata map[domain.ItemId]string
	// refused holds receivers whose incoming transfers are rejected
	refused map[domain.Address]bool
	onMove  func(ctx bCtx.Ctx, item domain.ItemId, to domain.Address)
}

func New() *Registry {
	return &Registry{
		owners:   map[domain.ItemId]domain.Address{},
		metadata: map[domain.ItemId]string{},
		refused:  map[domain.Address]bool{},
	}
}

func (r *Registry) Mint(ctx bCtx.Ctx, owner domain.Address) (domain.ItemId, error) {
	if !owner.IsValid() {
		return "", domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item := domain.ItemId("item-" + strconv.FormatInt(r.seq, 10))
	r.owners[item] = owner.ToLower()
	ctx.WithFields(log.Fields{"item": item, "owner": owner}).Debug("minted")
	return item, nil
}

func (r *Registry) SetMetadata(_ bCtx.Ctx, item domain.ItemId, uri string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[item]; !ok {
		return domain.ErrNotFound
	}
	r.metadata[item] = uri
	return nil
}

// Transfer refuses moves not started by the current holder and moves to refused receivers
func (r *Registry) Transfer(ctx bCtx.Ctx, item domain.ItemId, from, to domain.Address) bool {
	r.mu.Lock()
	holder, ok := r.owners[item]
	if !ok || !holder.Equals(from) || r.refused[to.ToLower()] {
		r.mu.Unlock()
		ctx.WithFields(log.Fields{"item": item, "from": from, "to": to}).Warn("transfer refused")
		return false
	}
	r.owners[item] = to.ToLower()
	hook := r.onMove
	r.mu.Unlock()

	if hook != nil {
		hook(ctx, item, to)
	}
	return true
}

// OwnerOf returns the current holder, false for unknown items
func (r *Registry) OwnerOf(item domain.ItemId) (domain.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[item]
	return owner, ok
}

func (r *Registry) Metadata(item domain.ItemId) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metadata[item]
}

// Refuse makes transfers to account fail until called again with false
func (r *Registry) Refuse(account domain.Address, refuse bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if refuse {
		r.refused[account.ToLower()] = true
		return
	}
	delete(r.refused, account.ToLower())
}

// OnMove registers a callback run after each accepted transfer, outside the registry lock.
// The receiver may call back into the engine from it.
func (r *Registry) OnMove(fn func(ctx bCtx.Ctx, item domain.ItemId, to domain.Address)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMove = fn
}
