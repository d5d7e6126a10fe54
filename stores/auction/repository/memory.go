package repository

import (
	"sort"
	"sync"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
)

type memoryRepo struct {
	mu       sync.RWMutex
	seq      int64
	auctions map[auction.Id]*auction.Auction
}

// NewMemoryRepo keeps auctions in process, records are copied in and out
func NewMemoryRepo() auction.Repo {
	return &memoryRepo{
		auctions: map[auction.Id]*auction.Auction{},
	}
}

func (r *memoryRepo) NextId(ctx bCtx.Ctx) (auction.Id, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return auction.Id(r.seq), nil
}

func (r *memoryRepo) Create(ctx bCtx.Ctx, a *auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.auctions[a.Id]; ok {
		ctx.WithField("id", a.Id).Error("auction already exists")
		return domain.ErrInvalidInput
	}
	r.auctions[a.Id] = normalize(a)
	return nil
}

func (r *memoryRepo) FindOne(ctx bCtx.Ctx, id auction.Id) (*auction.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *memoryRepo) FindAll(ctx bCtx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("auction.GetFindAllOptions failed")
		return nil, err
	}

	r.mu.RLock()
	res := []*auction.Auction{}
	for _, a := range r.auctions {
		if opts.Owner != nil && !a.Owner.Equals(*opts.Owner) {
			continue
		}
		res = append(res, a.Clone())
	}
	r.mu.RUnlock()

	desc := opts.SortDir != nil && *opts.SortDir == domain.SortDirDesc
	sort.Slice(res, func(i, j int) bool {
		if desc {
			return res[i].Id > res[j].Id
		}
		return res[i].Id < res[j].Id
	})

	return paginate(res, opts.Offset, opts.Limit), nil
}

func (r *memoryRepo) Update(ctx bCtx.Ctx, a *auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.auctions[a.Id]; !ok {
		return domain.ErrNotFound
	}
	r.auctions[a.Id] = normalize(a)
	return nil
}

func normalize(a *auction.Auction) *auction.Auction {
	c := a.Clone()
	c.Owner = c.Owner.ToLower()
	c.HighestBidder = c.HighestBidder.ToLower()
	return c
}

func paginate(res []*auction.Auction, offset, limit *int32) []*auction.Auction {
	if offset != nil {
		if int(*offset) >= len(res) {
			return []*auction.Auction{}
		}
		res = res[*offset:]
	}
	if limit != nil && *limit > 0 && int(*limit) < len(res) {
		res = res[:*limit]
	}
	return res
}
