package repository

import (
	"sync"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
)

type recorder struct {
	mu     sync.RWMutex
	events []*event.Event
}

// NewRecorder keeps the journal in memory
func NewRecorder() event.Journal {
	return &recorder{}
}

func (r *recorder) Name() string {
	return "recorder"
}

func (r *recorder) Write(_ bCtx.Ctx, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	r.events = append(r.events, &c)
	return nil
}

func (r *recorder) FindByAuction(_ bCtx.Ctx, id auction.Id) ([]*event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := []*event.Event{}
	for _, e := range r.events {
		if e.AuctionId == id {
			c := *e
			res = append(res, &c)
		}
	}
	return res, nil
}

func (r *recorder) Close() error {
	return nil
}
