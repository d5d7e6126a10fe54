package repository

import (
	"encoding/json"

	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/keys"
	"github.com/x-xyz/settlement/service/redis"
)

type redisPublisher struct {
	redis redis.Service
}

// NewRedisPublisher publishes every event on the pub/sub channel of its type
func NewRedisPublisher(r redis.Service) event.Sink {
	return &redisPublisher{redis: r}
}

func (p *redisPublisher) Name() string {
	return "redis"
}

func (p *redisPublisher) Write(ctx bCtx.Ctx, e *event.Event) error {
	msg, err := json.Marshal(e)
	if err != nil {
		ctx.WithField("err", err).Error("json.Marshal failed")
		return err
	}
	channel := keys.EventChannel(string(e.Type))
	if _, err := p.redis.Publish(ctx, channel, msg); err != nil {
		ctx.WithFields(log.Fields{"channel": channel, "err": err}).Error("redis.Publish failed")
		return err
	}
	return nil
}
