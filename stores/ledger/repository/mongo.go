package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/ledger"
	"github.com/x-xyz/settlement/service/query"
)

type entryDoc struct {
	AuctionId int64          `bson:"auctionId"`
	Bidder    domain.Address `bson:"bidder"`
	Amount    string         `bson:"amount"`
	UpdatedAt time.Time      `bson:"updatedAt"`
}

func (d *entryDoc) toDomain() (*ledger.Entry, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, err
	}
	return &ledger.Entry{
		AuctionId: auction.Id(d.AuctionId),
		Bidder:    d.Bidder,
		Amount:    amount,
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func selector(id auction.Id, bidder domain.Address) bson.M {
	return bson.M{"auctionId": int64(id), "bidder": bidder.ToLower()}
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) ledger.Repo {
	return &mongoRepo{q: q}
}

func (r *mongoRepo) FindOne(ctx bCtx.Ctx, id auction.Id, bidder domain.Address) (*ledger.Entry, error) {
	doc := &entryDoc{}
	if err := r.q.FindOne(ctx, domain.TableBids, selector(id, bidder), doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "bidder": bidder, "err": err}).Error("q.FindOne failed")
		return nil, err
	}

	e, err := doc.toDomain()
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "bidder": bidder, "err": err}).Error("doc.toDomain failed")
		return nil, err
	}
	return e, nil
}

func (r *mongoRepo) Upsert(ctx bCtx.Ctx, e *ledger.Entry) error {
	doc := &entryDoc{
		AuctionId: int64(e.AuctionId),
		Bidder:    e.Bidder.ToLower(),
		Amount:    e.Amount.String(),
		UpdatedAt: e.UpdatedAt,
	}
	if err := r.q.Upsert(ctx, domain.TableBids, selector(e.AuctionId, e.Bidder), doc); err != nil {
		ctx.WithFields(log.Fields{"entry": e, "err": err}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) FindAllByAuction(ctx bCtx.Ctx, id auction.Id) ([]*ledger.Entry, error) {
	docs := []entryDoc{}
	if err := r.q.Search(ctx, domain.TableBids, 0, 0, "bidder", bson.M{"auctionId": int64(id)}, &docs); err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("q.Search failed")
		return nil, err
	}

	res := make([]*ledger.Entry, 0, len(docs))
	for i := range docs {
		e, err := docs[i].toDomain()
		if err != nil {
			ctx.WithFields(log.Fields{"id": id, "err": err}).Error("doc.toDomain failed")
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}
