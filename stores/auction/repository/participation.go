package repository

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/keys"
	"github.com/x-xyz/settlement/service/cache"
	"github.com/x-xyz/settlement/service/query"
)

type memoryParticipationRepo struct {
	mu  sync.RWMutex
	ids map[domain.Address][]auction.Id
}

func NewMemoryParticipationRepo() auction.ParticipationRepo {
	return &memoryParticipationRepo{
		ids: map[domain.Address][]auction.Id{},
	}
}

func (r *memoryParticipationRepo) Append(ctx bCtx.Ctx, account domain.Address, id auction.Id) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account = account.ToLower()
	for _, existing := range r.ids[account] {
		if existing == id {
			return nil
		}
	}
	r.ids[account] = append(r.ids[account], id)
	return nil
}

func (r *memoryParticipationRepo) FindByAccount(ctx bCtx.Ctx, account domain.Address) ([]auction.Id, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.ids[account.ToLower()]
	res := make([]auction.Id, len(ids))
	copy(res, ids)
	return res, nil
}

type participationDoc struct {
	Account domain.Address `bson:"_id"`
	Ids     []int64        `bson:"ids"`
}

type mongoParticipationRepo struct {
	q query.Mongo
}

func NewMongoParticipationRepo(q query.Mongo) auction.ParticipationRepo {
	return &mongoParticipationRepo{q: q}
}

func (r *mongoParticipationRepo) Append(ctx bCtx.Ctx, account domain.Address, id auction.Id) error {
	selector := bson.M{"_id": account.ToLower()}
	if err := r.q.AddToSet(ctx, domain.TableParticipations, selector, "ids", int64(id)); err != nil {
		ctx.WithFields(log.Fields{"account": account, "id": id, "err": err}).Error("q.AddToSet failed")
		return err
	}
	return nil
}

func (r *mongoParticipationRepo) FindByAccount(ctx bCtx.Ctx, account domain.Address) ([]auction.Id, error) {
	doc := &participationDoc{}
	if err := r.q.FindOne(ctx, domain.TableParticipations, bson.M{"_id": account.ToLower()}, doc); err == query.ErrNotFound {
		return []auction.Id{}, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"account": account, "err": err}).Error("q.FindOne failed")
		return nil, err
	}

	res := make([]auction.Id, 0, len(doc.Ids))
	for _, id := range doc.Ids {
		res = append(res, auction.Id(id))
	}
	return res, nil
}

type cachedParticipationRepo struct {
	inner auction.ParticipationRepo
	cache cache.Service
}

// NewCachedParticipationRepo serves FindByAccount from cache and drops the entry on every Append
func NewCachedParticipationRepo(inner auction.ParticipationRepo, c cache.Service) auction.ParticipationRepo {
	return &cachedParticipationRepo{inner: inner, cache: c}
}

func participationKey(account domain.Address) string {
	return keys.RedisKey(keys.PfxParticipation, account.ToLowerStr())
}

func (r *cachedParticipationRepo) Append(ctx bCtx.Ctx, account domain.Address, id auction.Id) error {
	if err := r.inner.Append(ctx, account, id); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, participationKey(account)); err != nil {
		ctx.WithFields(log.Fields{"account": account, "err": err}).Warn("cache.Del failed")
	}
	return nil
}

func (r *cachedParticipationRepo) FindByAccount(ctx bCtx.Ctx, account domain.Address) ([]auction.Id, error) {
	ids := []auction.Id{}
	err := r.cache.GetByFunc(ctx, participationKey(account), &ids, func() (interface{}, error) {
		res, err := r.inner.FindByAccount(ctx, account)
		if err != nil {
			return nil, err
		}
		return &res, nil
	})
	if err != nil {
		ctx.WithFields(log.Fields{"account": account, "err": err}).Error("cache.GetByFunc failed")
		return nil, err
	}
	return ids, nil
}
