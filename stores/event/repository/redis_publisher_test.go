package repository

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/keys"
	mRedis "github.com/x-xyz/settlement/service/redis/mocks"
)

func TestRedisPublisher(t *testing.T) {
	req := require.New(t)
	r := &mRedis.Service{}
	defer r.AssertExpectations(t)

	e := event.New(event.TypeBidPlaced, 3, alice, decimal.NewFromInt(150), at)
	r.On("Publish", mock.Anything, keys.EventChannel("bid_placed"), mock.MatchedBy(func(msg []byte) bool {
		got := &event.Event{}
		return json.Unmarshal(msg, got) == nil && got.Id == e.Id && got.Amount.Equal(e.Amount)
	})).Return(1, nil).Once()

	p := NewRedisPublisher(r)
	req.Equal("redis", p.Name())
	req.NoError(p.Write(mockCtx, e))

	r.On("Publish", mock.Anything, keys.EventChannel("auction_closed"), mock.Anything).Return(0, errors.New("conn refused")).Once()
	req.Error(p.Write(mockCtx, event.New(event.TypeAuctionClosed, 3, alice, decimal.Zero, at)))
}
