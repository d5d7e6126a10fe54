package main

import (
	"sync"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/x-xyz/settlement/base/backoff"
	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/database/mongoclient"
	"github.com/x-xyz/settlement/base/database/pebbleclient"
	"github.com/x-xyz/settlement/base/database/redisclient"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/keys"
	"github.com/x-xyz/settlement/domain/ledger"
	"github.com/x-xyz/settlement/service/assetregistry"
	"github.com/x-xyz/settlement/service/auctionhouse"
	"github.com/x-xyz/settlement/service/cache"
	"github.com/x-xyz/settlement/service/cache/provider"
	"github.com/x-xyz/settlement/service/cache/provider/compound"
	"github.com/x-xyz/settlement/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/settlement/service/cache/provider/redis"
	"github.com/x-xyz/settlement/service/paymentrail"
	"github.com/x-xyz/settlement/service/query"
	"github.com/x-xyz/settlement/service/redis"
	auctionRepository "github.com/x-xyz/settlement/stores/auction/repository"
	auctionUseCase "github.com/x-xyz/settlement/stores/auction/usecase"
	eventRepository "github.com/x-xyz/settlement/stores/event/repository"
	eventUseCase "github.com/x-xyz/settlement/stores/event/usecase"
	ledgerRepository "github.com/x-xyz/settlement/stores/ledger/repository"
	ledgerUseCase "github.com/x-xyz/settlement/stores/ledger/usecase"
	settlementUseCase "github.com/x-xyz/settlement/stores/settlement/usecase"
)

const (
	storeMemory = "memory"
	storeMongo  = "mongo"
)

type redisCfg struct {
	Name           string  `mapstructure:"name"`
	URI            string  `mapstructure:"uri"`
	Password       string  `mapstructure:"password"`
	PoolMultiplier float64 `mapstructure:"pool_multiplier"`
}

type engineCfg struct {
	StoreKind      string
	Mongo          mongoclient.Param
	Redis          redisCfg
	Journal        pebbleclient.Param
	Custody        domain.Address
	CacheTtl       time.Duration
	CacheSizeMB    int
	NotifyWorkers  int
	NotifyAttempts int
	NotifyBackoff  string
	Datadog        bool
}

func loadEngineCfg() (engineCfg, error) {
	cfg := engineCfg{
		StoreKind:      viper.GetString("store.kind"),
		Custody:        domain.Address(viper.GetString("engine.custody")),
		CacheTtl:       viper.GetDuration("cache.ttl"),
		CacheSizeMB:    viper.GetInt("cache.size_mb"),
		NotifyWorkers:  viper.GetInt("engine.notify_workers"),
		NotifyAttempts: viper.GetInt("engine.notify_attempts"),
		NotifyBackoff:  viper.GetString("engine.notify_backoff"),
		Datadog:        viper.GetString("datadog_host") != "",
	}
	if err := viper.UnmarshalKey("mongo", &cfg.Mongo); err != nil {
		return cfg, err
	}
	if err := viper.UnmarshalKey("redis", &cfg.Redis); err != nil {
		return cfg, err
	}
	if err := viper.UnmarshalKey("journal", &cfg.Journal); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// clock is the scenario time, moved forward only by advance steps
type clock struct {
	mu  sync.RWMutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type engine struct {
	house  auctionhouse.Service
	assets *assetregistry.Registry
	rail   *paymentrail.Rail
	clock  *clock
}

func newMetrics(cfg engineCfg, name string) metrics.Service {
	if cfg.Datadog {
		return metrics.New(name)
	}
	return metrics.NewLogMetrics(name)
}

func buildEngine(c ctx.Ctx, cfg engineCfg, start time.Time) (*engine, error) {
	if !cfg.Custody.IsValid() {
		c.WithField("custody", cfg.Custody).Error("engine.custody is not an address")
		return nil, domain.ErrInvalidInput
	}
	strategy, err := backoff.ParseStrategy(cfg.NotifyBackoff)
	if err != nil {
		c.WithField("err", err).Error("engine.notify_backoff is invalid")
		return nil, xerrors.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	clk := &clock{now: start}

	var redisService redis.Service
	if cfg.Redis.URI != "" {
		c.Info("init redis")
		pool, err := redisclient.ConnectRedis(cfg.Redis.URI, cfg.Redis.Password, redisclient.RedisParam{
			PoolMultiplier: cfg.Redis.PoolMultiplier,
			Retry:          true,
		})
		if err != nil {
			c.WithField("err", err).Error("redisclient.ConnectRedis failed")
			return nil, err
		}
		redisService = redis.New(cfg.Redis.Name, newMetrics(cfg, "redis"), &redis.Pools{Src: pool})
	}

	var (
		auctionRepo   auction.Repo
		participation auction.ParticipationRepo
		ledgerRepo    ledger.Repo
	)
	switch cfg.StoreKind {
	case storeMongo:
		c.Info("init mongo")
		client, err := mongoclient.ConnectMongoClient(cfg.Mongo)
		if err != nil {
			c.WithField("err", err).Error("mongoclient.ConnectMongoClient failed")
			return nil, err
		}
		q := query.New(client, newMetrics(cfg, "query"))
		auctionRepo = auctionRepository.NewMongoRepo(q)
		ledgerRepo = ledgerRepository.NewMongoRepo(q)

		layers := []provider.Provider{primitive.NewPrimitive(keys.PfxParticipation, cfg.CacheSizeMB)}
		if redisService != nil {
			layers = append(layers, redisProvider.NewRedis(redisService))
		}
		participation = auctionRepository.NewCachedParticipationRepo(
			auctionRepository.NewMongoParticipationRepo(q),
			cache.New(cache.ServiceConfig{
				Ttl:   cfg.CacheTtl,
				Pfx:   keys.PfxParticipation,
				Cache: compound.NewCompound(layers...),
				Met:   newMetrics(cfg, "cache"),
			}),
		)
	case storeMemory, "":
		auctionRepo = auctionRepository.NewMemoryRepo()
		ledgerRepo = ledgerRepository.NewMemoryRepo()
		participation = auctionRepository.NewMemoryParticipationRepo()
	default:
		c.WithField("kind", cfg.StoreKind).Error("unknown store.kind")
		return nil, domain.ErrInvalidInput
	}

	var journal event.Journal
	if cfg.Journal.Path != "" {
		c.WithField("path", cfg.Journal.Path).Info("init journal")
		cli, err := pebbleclient.Connect(cfg.Journal)
		if err != nil {
			c.WithField("err", err).Error("pebbleclient.Connect failed")
			return nil, err
		}
		if journal, err = eventRepository.NewJournal(cli); err != nil {
			c.WithField("err", err).Error("eventRepository.NewJournal failed")
			return nil, err
		}
	} else {
		journal = eventRepository.NewRecorder()
	}
	sinks := []event.Sink{journal}
	if redisService != nil {
		sinks = append(sinks, eventRepository.NewRedisPublisher(redisService))
	}
	notifier := eventUseCase.New(&eventUseCase.NotifierCfg{
		Sinks:         sinks,
		Workers:       cfg.NotifyWorkers,
		Attempts:      cfg.NotifyAttempts,
		RetryStrategy: strategy,
		Metrics:       newMetrics(cfg, "notifier"),
	})

	assets := assetregistry.New()
	rail := paymentrail.New(newMetrics(cfg, "paymentrail"))

	auctions := auctionUseCase.New(&auctionUseCase.AuctionUseCaseCfg{
		Repo:          auctionRepo,
		Participation: participation,
		LedgerRepo:    ledgerRepo,
		Assets:        assets,
		Notifier:      notifier,
		Custody:       cfg.Custody,
		Metrics:       newMetrics(cfg, "auction"),
		Now:           clk.Now,
	})
	bids := ledgerUseCase.New(&ledgerUseCase.LedgerUseCaseCfg{
		Repo:     ledgerRepo,
		Auctions: auctions,
		Notifier: notifier,
		Metrics:  newMetrics(cfg, "ledger"),
		Now:      clk.Now,
	})
	settler := settlementUseCase.New(&settlementUseCase.SettlementUseCaseCfg{
		Auctions:    auctions,
		AuctionRepo: auctionRepo,
		Ledger:      bids,
		LedgerRepo:  ledgerRepo,
		Assets:      assets,
		Payments:    rail,
		Notifier:    notifier,
		Custody:     cfg.Custody,
		Metrics:     newMetrics(cfg, "settlement"),
		Now:         clk.Now,
	})

	return &engine{
		house: auctionhouse.New(&auctionhouse.ServiceCfg{
			Auctions:   auctions,
			Ledger:     bids,
			Settlement: settler,
			Notifier:   notifier,
			Journal:    journal,
			Metrics:    newMetrics(cfg, "auctionhouse"),
		}),
		assets: assets,
		rail:   rail,
		clock:  clk,
	}, nil
}
