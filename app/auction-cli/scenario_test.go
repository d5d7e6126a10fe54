package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
)

var (
	mockCtx = ctx.Background()
	seller  = domain.Address("0x00000000000000000000000000000000000000a1")
	alice   = domain.Address("0x00000000000000000000000000000000000000b2")
	bob     = domain.Address("0x00000000000000000000000000000000000000c3")
)

func newTestEngine(t *testing.T) *engine {
	e, err := buildEngine(mockCtx, engineCfg{
		StoreKind: storeMemory,
		Custody:   "0x000000000000000000000000000000000000c0de",
	}, time.Unix(1_000_000, 0).UTC())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.house.Close()) })
	return e
}

func TestBundledScenario(t *testing.T) {
	req := require.New(t)
	steps, err := loadScenario(filepath.Join("..", "..", "configs", "scenario.yaml"))
	req.NoError(err)
	req.Len(steps, 14)
	req.Equal(time.Hour, steps[0].Duration)

	e := newTestEngine(t)
	res, err := e.run(mockCtx, steps)
	req.NoError(err)
	req.Len(res, len(steps))

	req.True(e.rail.BalanceOf(seller).Equal(decimal.NewFromInt(160)))
	req.True(e.rail.BalanceOf(bob).Equal(decimal.NewFromInt(150)))
	req.True(e.rail.BalanceOf(alice).IsZero())

	shown := res[12].Result.(*auction.Auction)
	holder, ok := e.assets.OwnerOf(shown.ItemId)
	req.True(ok)
	req.Equal(alice, holder)
	req.True(shown.OwnerSettled)
	req.True(shown.WinnerSettled)

	history := res[13].Result.([]*event.Event)
	req.Equal(event.TypeAuctionCreated, history[0].Type)
	req.Equal(event.TypeBidRefunded, history[len(history)-1].Type)
}

func TestRunStopsOnUnexpectedOutcome(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(t)

	res, err := e.run(mockCtx, []step{
		{Op: opCreate, Account: seller.String(), StartPrice: "100", Duration: time.Hour, MetadataUri: "ipfs://x"},
		{Op: opSettle, Auction: 1, Account: seller.String()},
		{Op: opShow, Auction: 1},
	})
	req.ErrorIs(err, domain.ErrAuctionStillOpen)
	req.Len(res, 2)

	_, err = e.run(mockCtx, []step{{Op: opShow, Auction: 1, Expect: "not_found"}})
	req.Error(err)

	_, err = e.run(mockCtx, []step{{Op: "withdraw"}})
	req.ErrorIs(err, domain.ErrInvalidInput)
}

func TestBuildEngineRejectsBadConfig(t *testing.T) {
	req := require.New(t)
	_, err := buildEngine(mockCtx, engineCfg{StoreKind: storeMemory, Custody: "vault"}, time.Now())
	req.ErrorIs(err, domain.ErrInvalidInput)

	_, err = buildEngine(mockCtx, engineCfg{StoreKind: "sqlite", Custody: "0x000000000000000000000000000000000000c0de"}, time.Now())
	req.ErrorIs(err, domain.ErrInvalidInput)

	_, err = buildEngine(mockCtx, engineCfg{StoreKind: storeMemory, Custody: "0x000000000000000000000000000000000000c0de", NotifyBackoff: "fibonacci"}, time.Now())
	req.ErrorIs(err, domain.ErrInvalidInput)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
