package repository

import (
	"sort"
	"sync"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/ledger"
)

type entryKey struct {
	auctionId auction.Id
	bidder    domain.Address
}

type memoryRepo struct {
	mu      sync.RWMutex
	entries map[entryKey]ledger.Entry
}

func NewMemoryRepo() ledger.Repo {
	return &memoryRepo{
		entries: map[entryKey]ledger.Entry{},
	}
}

func (r *memoryRepo) FindOne(ctx bCtx.Ctx, id auction.Id, bidder domain.Address) (*ledger.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[entryKey{id, bidder.ToLower()}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *memoryRepo) Upsert(ctx bCtx.Ctx, e *ledger.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	c.Bidder = c.Bidder.ToLower()
	r.entries[entryKey{c.AuctionId, c.Bidder}] = c
	return nil
}

func (r *memoryRepo) FindAllByAuction(ctx bCtx.Ctx, id auction.Id) ([]*ledger.Entry, error) {
	r.mu.RLock()
	res := []*ledger.Entry{}
	for k, e := range r.entries {
		if k.auctionId != id {
			continue
		}
		c := e
		res = append(res, &c)
	}
	r.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		return res[i].Bidder < res[j].Bidder
	})
	return res, nil
}
