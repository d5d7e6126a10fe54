package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/database/mongoclient"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/service/query"
)

const (
	counterAuctions = "auctions"
)

// auctionDoc keeps amounts as decimal strings, bson has no lossless decimal.Decimal codec
type auctionDoc struct {
	Id            int64            `bson:"_id"`
	Owner         domain.Address   `bson:"owner"`
	ItemId        domain.ItemId    `bson:"itemId"`
	MetadataUri   string           `bson:"metadataUri"`
	StartPrice    string           `bson:"startPrice"`
	StartTime     time.Time        `bson:"startTime"`
	EndTime       time.Time        `bson:"endTime"`
	HighestBid    string           `bson:"highestBid"`
	HighestBidder domain.Address   `bson:"highestBidder"`
	IsActive      bool             `bson:"isActive"`
	OwnerSettled  bool             `bson:"ownerSettled"`
	WinnerSettled bool             `bson:"winnerSettled"`
	Proceeds      string           `bson:"proceeds"`
	Participants  []domain.Address `bson:"participants"`
}

type counterDoc struct {
	Id  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func toDoc(a *auction.Auction) *auctionDoc {
	participants := make([]domain.Address, 0, len(a.Participants))
	for _, p := range a.Participants {
		participants = append(participants, p.ToLower())
	}
	return &auctionDoc{
		Id:            int64(a.Id),
		Owner:         a.Owner.ToLower(),
		ItemId:        a.ItemId,
		MetadataUri:   a.MetadataUri,
		StartPrice:    a.StartPrice.String(),
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		HighestBid:    a.HighestBid.String(),
		HighestBidder: a.HighestBidder.ToLower(),
		IsActive:      a.IsActive,
		OwnerSettled:  a.OwnerSettled,
		WinnerSettled: a.WinnerSettled,
		Proceeds:      a.Proceeds.String(),
		Participants:  participants,
	}
}

func (d *auctionDoc) toDomain() (*auction.Auction, error) {
	amounts := make([]decimal.Decimal, 3)
	for i, s := range []string{d.StartPrice, d.HighestBid, d.Proceeds} {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		amounts[i] = v
	}
	participants := d.Participants
	if participants == nil {
		participants = []domain.Address{}
	}
	return &auction.Auction{
		Id:            auction.Id(d.Id),
		Owner:         d.Owner,
		ItemId:        d.ItemId,
		MetadataUri:   d.MetadataUri,
		StartPrice:    amounts[0],
		StartTime:     d.StartTime.UTC(),
		EndTime:       d.EndTime.UTC(),
		HighestBid:    amounts[1],
		HighestBidder: d.HighestBidder,
		IsActive:      d.IsActive,
		OwnerSettled:  d.OwnerSettled,
		WinnerSettled: d.WinnerSettled,
		Proceeds:      amounts[2],
		Participants:  participants,
	}, nil
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) auction.Repo {
	return &mongoRepo{q: q}
}

func (r *mongoRepo) NextId(ctx bCtx.Ctx) (auction.Id, error) {
	res := &counterDoc{}
	if err := r.q.Increment(ctx, domain.TableCounters, bson.M{"_id": counterAuctions}, res, "seq", 1); err != nil {
		ctx.WithField("err", err).Error("q.Increment failed")
		return 0, err
	}
	return auction.Id(res.Seq), nil
}

func (r *mongoRepo) Create(ctx bCtx.Ctx, a *auction.Auction) error {
	if err := r.q.Insert(ctx, domain.TableAuctions, toDoc(a)); err == query.ErrDuplicateKey {
		ctx.WithField("id", a.Id).Error("auction already exists")
		return domain.ErrInvalidInput
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) FindOne(ctx bCtx.Ctx, id auction.Id) (*auction.Auction, error) {
	doc := &auctionDoc{}
	if err := r.q.FindOne(ctx, domain.TableAuctions, bson.M{"_id": int64(id)}, doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("q.FindOne failed")
		return nil, err
	}

	a, err := doc.toDomain()
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("doc.toDomain failed")
		return nil, err
	}
	return a, nil
}

func (r *mongoRepo) FindAll(ctx bCtx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("auction.GetFindAllOptions failed")
		return nil, err
	}

	var (
		offset int    = 0
		limit  int    = 0
		sort   string = "_id"
	)
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}
	if opts.SortDir != nil && *opts.SortDir == domain.SortDirDesc {
		sort = "-_id"
	}

	query, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		ctx.WithField("err", err).Error("MakeBsonM failed")
		return nil, err
	}

	docs := []auctionDoc{}
	if err := r.q.Search(ctx, domain.TableAuctions, offset, limit, sort, query, &docs); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}

	res := make([]*auction.Auction, 0, len(docs))
	for i := range docs {
		a, err := docs[i].toDomain()
		if err != nil {
			ctx.WithFields(log.Fields{"id": docs[i].Id, "err": err}).Error("doc.toDomain failed")
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}

func (r *mongoRepo) Update(ctx bCtx.Ctx, a *auction.Auction) error {
	if err := r.q.Replace(ctx, domain.TableAuctions, bson.M{"_id": int64(a.Id)}, toDoc(a)); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": a.Id, "err": err}).Error("q.Replace failed")
		return err
	}
	return nil
}
