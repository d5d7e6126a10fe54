package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain/keys"
	"github.com/x-xyz/settlement/service/cache/provider"
	"github.com/x-xyz/settlement/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type ids struct {
	Ids []int64 `json:"ids"`
}

type testsuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "testing",
		Cache: ts.cache,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGet() {
	c := &ids{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "0xabc", c))

	sv, err := json.Marshal(ids{Ids: []int64{1, 2}})
	ts.NoError(err)
	ts.NoError(ts.cache.Set(mockCtx, keys.RedisKey("testing", "0xabc"), sv, time.Minute))
	ts.NoError(ts.im.Get(mockCtx, "0xabc", c))
	ts.Equal([]int64{1, 2}, c.Ids)
}

func (ts *testsuite) TestSetDel() {
	ts.NoError(ts.im.Set(mockCtx, "0xabc", ids{Ids: []int64{3}}))

	sv, _, err := ts.cache.Get(mockCtx, keys.RedisKey("testing", "0xabc"))
	ts.NoError(err)
	ts.JSONEq(`{"ids":[3]}`, string(sv))

	ts.NoError(ts.im.Del(mockCtx, "0xabc"))
	_, _, err = ts.cache.Get(mockCtx, keys.RedisKey("testing", "0xabc"))
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestGetByFunc() {
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return &ids{Ids: []int64{7}}, nil
	}

	c := &ids{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "0xabc", c, getter))
	ts.Equal([]int64{7}, c.Ids)

	c = &ids{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "0xabc", c, getter))
	ts.Equal([]int64{7}, c.Ids)
	ts.Equal(1, calls)

	boom := errors.New("boom")
	ts.Equal(boom, ts.im.GetByFunc(mockCtx, "other", &ids{}, func() (interface{}, error) {
		return nil, boom
	}))
}
