package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/database/pebbleclient"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
)

var seqKey = []byte("seq:evt")

// journal appends events to pebble under evt:<auctionId>:<seq> so one auction's history is a prefix scan
type journal struct {
	mu  sync.Mutex
	cli *pebbleclient.Client
	seq uint64
}

func NewJournal(cli *pebbleclient.Client) (event.Journal, error) {
	j := &journal{cli: cli}
	raw, err := cli.Get(seqKey)
	switch {
	case errors.Is(err, pebbleclient.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		if j.seq, err = strconv.ParseUint(string(raw), 10, 64); err != nil {
			return nil, xerrors.Errorf("corrupted journal sequence %q: %w", raw, err)
		}
	}
	return j, nil
}

func auctionPrefix(id auction.Id) []byte {
	return []byte(fmt.Sprintf("evt:%020d:", id))
}

func (j *journal) Name() string {
	return "journal"
}

func (j *journal) Write(ctx bCtx.Ctx, e *event.Event) error {
	val, err := json.Marshal(e)
	if err != nil {
		ctx.WithField("err", err).Error("json.Marshal failed")
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	next := j.seq + 1
	key := append(auctionPrefix(e.AuctionId), []byte(fmt.Sprintf("%020d", next))...)
	if err := j.cli.SetBatch([]pebbleclient.KeyValue{
		{Key: key, Value: val},
		{Key: seqKey, Value: []byte(strconv.FormatUint(next, 10))},
	}); err != nil {
		ctx.WithFields(log.Fields{"key": string(key), "err": err}).Error("cli.SetBatch failed")
		return err
	}
	j.seq = next
	return nil
}

func (j *journal) FindByAuction(ctx bCtx.Ctx, id auction.Id) ([]*event.Event, error) {
	res := []*event.Event{}
	err := j.cli.IteratePrefix(auctionPrefix(id), func(key, value []byte) error {
		e := &event.Event{}
		if err := json.Unmarshal(value, e); err != nil {
			return xerrors.Errorf("decode %s: %w", key, err)
		}
		res = append(res, e)
		return nil
	})
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("cli.IteratePrefix failed")
		return nil, err
	}
	return res, nil
}

func (j *journal) Close() error {
	return j.cli.Close()
}
