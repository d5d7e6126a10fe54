package auctionhouse

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/domain"
	"github.com/x-xyz/settlement/domain/auction"
	"github.com/x-xyz/settlement/domain/event"
	"github.com/x-xyz/settlement/domain/settlement"
	"github.com/x-xyz/settlement/service/assetregistry"
	"github.com/x-xyz/settlement/service/paymentrail"
	auctionRepo "github.com/x-xyz/settlement/stores/auction/repository"
	auctionUseCase "github.com/x-xyz/settlement/stores/auction/usecase"
	eventRepo "github.com/x-xyz/settlement/stores/event/repository"
	eventUseCase "github.com/x-xyz/settlement/stores/event/usecase"
	ledgerRepo "github.com/x-xyz/settlement/stores/ledger/repository"
	ledgerUseCase "github.com/x-xyz/settlement/stores/ledger/usecase"
	settlementUseCase "github.com/x-xyz/settlement/stores/settlement/usecase"
)

var (
	mockCtx  = ctx.Background()
	custody  = domain.Address("0x000000000000000000000000000000000000c0de")
	owner    = domain.Address("0x00000000000000000000000000000000000000a1")
	alice    = domain.Address("0x00000000000000000000000000000000000000b2")
	bob      = domain.Address("0x00000000000000000000000000000000000000c3")
	carol    = domain.Address("0x00000000000000000000000000000000000000d4")
	stranger = domain.Address("0x00000000000000000000000000000000000000e5")
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

type houseSuite struct {
	suite.Suite

	now    time.Time
	assets *assetregistry.Registry
	rail   *paymentrail.Rail
	house  Service
}

func (s *houseSuite) SetupTest() {
	s.now = time.Unix(1_000_000, 0).UTC()
	clock := func() time.Time { return s.now }
	met := metrics.NewLogMetrics("test")

	s.assets = assetregistry.New()
	s.rail = paymentrail.New(met)
	journal := eventRepo.NewRecorder()
	notifier := eventUseCase.New(&eventUseCase.NotifierCfg{Sinks: []event.Sink{journal}, Metrics: met})

	aRepo := auctionRepo.NewMemoryRepo()
	lRepo := ledgerRepo.NewMemoryRepo()
	auctions := auctionUseCase.New(&auctionUseCase.AuctionUseCaseCfg{
		Repo:          aRepo,
		Participation: auctionRepo.NewMemoryParticipationRepo(),
		LedgerRepo:    lRepo,
		Assets:        s.assets,
		Notifier:      notifier,
		Custody:       custody,
		Metrics:       met,
		Now:           clock,
	})
	ledger := ledgerUseCase.New(&ledgerUseCase.LedgerUseCaseCfg{
		Repo:     lRepo,
		Auctions: auctions,
		Notifier: notifier,
		Metrics:  met,
		Now:      clock,
	})
	settler := settlementUseCase.New(&settlementUseCase.SettlementUseCaseCfg{
		Auctions:    auctions,
		AuctionRepo: aRepo,
		Ledger:      ledger,
		LedgerRepo:  lRepo,
		Assets:      s.assets,
		Payments:    s.rail,
		Notifier:    notifier,
		Custody:     custody,
		Metrics:     met,
		Now:         clock,
	})
	s.house = New(&ServiceCfg{
		Auctions:   auctions,
		Ledger:     ledger,
		Settlement: settler,
		Notifier:   notifier,
		Journal:    journal,
		Metrics:    met,
	})
}

func (s *houseSuite) TearDownTest() {
	s.NoError(s.house.Close())
}

func TestHouseSuite(t *testing.T) {
	suite.Run(t, new(houseSuite))
}

func (s *houseSuite) create(startPrice int64) auction.Id {
	id, err := s.house.CreateAuction(mockCtx, &auction.CreateParams{
		Creator:     owner,
		StartPrice:  d(startPrice),
		Duration:    time.Hour,
		MetadataUri: "ipfs://meta",
	})
	s.Require().NoError(err)
	return id
}

func (s *houseSuite) bid(id auction.Id, bidder domain.Address, value int64) decimal.Decimal {
	cumulative, err := s.house.Bid(mockCtx, id, bidder, d(value))
	s.Require().NoError(err)
	return cumulative
}

func (s *houseSuite) expire() {
	s.now = s.now.Add(time.Hour + time.Second)
}

func (s *houseSuite) get(id auction.Id) *auction.Auction {
	a, err := s.house.GetAuction(mockCtx, id)
	s.Require().NoError(err)
	return a
}

func (s *houseSuite) itemOwner(id auction.Id) domain.Address {
	holder, ok := s.assets.OwnerOf(s.get(id).ItemId)
	s.Require().True(ok)
	return holder
}

func (s *houseSuite) TestTopUpScenario() {
	id := s.create(100)
	s.Equal(custody, s.itemOwner(id))

	s.True(s.bid(id, alice, 100).Equal(d(100)))
	a := s.get(id)
	s.True(a.HighestBid.Equal(d(100)))
	s.Equal(alice, a.HighestBidder)

	s.True(s.bid(id, bob, 150).Equal(d(150)))
	s.Equal(bob, s.get(id).HighestBidder)

	s.True(s.bid(id, alice, 60).Equal(d(160)))
	a = s.get(id)
	s.True(a.HighestBid.Equal(d(160)))
	s.Equal(alice, a.HighestBidder)

	_, err := s.house.Settle(mockCtx, id, owner)
	s.ErrorIs(err, domain.ErrAuctionStillOpen)

	s.expire()
	s.Equal(auction.PhaseClosed, s.get(id).Phase(s.now))

	receipt, err := s.house.Settle(mockCtx, id, owner)
	s.Require().NoError(err)
	s.Equal(settlement.BranchOwnerProceeds, receipt.Branch)
	s.True(s.rail.BalanceOf(owner).Equal(d(160)))
	s.True(s.get(id).OwnerSettled)

	receipt, err = s.house.Settle(mockCtx, id, alice)
	s.Require().NoError(err)
	s.Equal(settlement.BranchWinner, receipt.Branch)
	s.Equal(alice, s.itemOwner(id))
	s.True(s.rail.BalanceOf(alice).IsZero())

	receipt, err = s.house.Settle(mockCtx, id, bob)
	s.Require().NoError(err)
	s.Equal(settlement.BranchRefund, receipt.Branch)
	s.True(s.rail.BalanceOf(bob).Equal(d(150)))

	_, err = s.house.Settle(mockCtx, id, bob)
	s.ErrorIs(err, domain.ErrNothingToWithdraw)
	s.True(s.rail.BalanceOf(bob).Equal(d(150)))

	escrowed, err := s.house.Escrowed(mockCtx, id)
	s.Require().NoError(err)
	s.True(escrowed.IsZero())
}

func (s *houseSuite) TestNoBidScenario() {
	id := s.create(100)
	s.expire()

	receipt, err := s.house.Settle(mockCtx, id, owner)
	s.Require().NoError(err)
	s.Equal(settlement.BranchOwnerNoBids, receipt.Branch)
	s.Equal(owner, s.itemOwner(id))
	s.True(s.rail.TotalSent().IsZero())

	_, err = s.house.Settle(mockCtx, id, owner)
	s.ErrorIs(err, domain.ErrAlreadySettled)
}

func (s *houseSuite) TestStartPriceFloor() {
	id := s.create(100)

	_, err := s.house.Bid(mockCtx, id, alice, d(99))
	s.ErrorIs(err, domain.ErrBidTooLow)
	s.False(s.get(id).HasBids())

	s.True(s.bid(id, alice, 100).Equal(d(100)))
}

func (s *houseSuite) TestBidAfterDeadline() {
	id := s.create(100)
	s.expire()

	_, err := s.house.Bid(mockCtx, id, alice, d(100))
	s.ErrorIs(err, domain.ErrAuctionAlreadyClosed)
	_, err = s.house.Bid(mockCtx, id, owner, d(100))
	s.ErrorIs(err, domain.ErrAuctionAlreadyClosed)
}

func (s *houseSuite) TestOwnerCannotBid() {
	id := s.create(100)
	_, err := s.house.Bid(mockCtx, id, owner, d(100))
	s.ErrorIs(err, domain.ErrNotEligible)
}

func (s *houseSuite) TestReads() {
	first := s.create(100)
	second := s.create(50)
	s.bid(second, alice, 50)

	remaining, err := s.house.TimeRemaining(mockCtx, first)
	s.Require().NoError(err)
	s.Equal(time.Hour, remaining)

	mine, err := s.house.GetMyBid(mockCtx, second, alice)
	s.Require().NoError(err)
	s.True(mine.Equal(d(50)))
	mine, err = s.house.GetMyBid(mockCtx, first, alice)
	s.Require().NoError(err)
	s.True(mine.IsZero())
	_, err = s.house.GetMyBid(mockCtx, 99, alice)
	s.ErrorIs(err, domain.ErrNotFound)

	all, err := s.house.ListAuctions(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(first, all[0].Id)

	ownerAuctions, err := s.house.ListMyAuctions(mockCtx, owner)
	s.Require().NoError(err)
	s.Len(ownerAuctions, 2)
	aliceAuctions, err := s.house.ListMyAuctions(mockCtx, alice)
	s.Require().NoError(err)
	s.Require().Len(aliceAuctions, 1)
	s.Equal(second, aliceAuctions[0].Id)

	// reads derive the phase without a prior write
	s.expire()
	remaining, err = s.house.TimeRemaining(mockCtx, first)
	s.Require().NoError(err)
	s.Zero(remaining)
	s.False(s.get(first).IsActive)
}

func (s *houseSuite) TestHistory() {
	id := s.create(100)
	s.bid(id, alice, 100)
	s.bid(id, bob, 120)
	s.expire()
	_, err := s.house.Settle(mockCtx, id, owner)
	s.Require().NoError(err)
	_, err = s.house.Settle(mockCtx, id, alice)
	s.Require().NoError(err)

	evts, err := s.house.History(mockCtx, id)
	s.Require().NoError(err)
	types := []event.Type{}
	for _, e := range evts {
		types = append(types, e.Type)
	}
	s.Equal([]event.Type{
		event.TypeAuctionCreated,
		event.TypeBidPlaced,
		event.TypeBidPlaced,
		event.TypeAuctionClosed,
		event.TypeOwnerPaid,
		event.TypeBidRefunded,
	}, types)
	s.True(evts[2].Amount.Equal(d(120)))
	s.Equal(bob, evts[2].Account)
}

func (s *houseSuite) TestConservation() {
	rnd := rand.New(rand.NewSource(7))
	bidders := []domain.Address{alice, bob, carol}
	id := s.create(10)

	sent := decimal.Zero
	check := func() {
		escrowed, err := s.house.Escrowed(mockCtx, id)
		s.Require().NoError(err)
		s.True(sent.Equal(s.rail.TotalSent().Add(escrowed)), "sent %s paid %s escrowed %s", sent, s.rail.TotalSent(), escrowed)
	}

	prevHighest := decimal.Zero
	for i := 0; i < 60; i++ {
		bidder := bidders[rnd.Intn(len(bidders))]
		value := d(int64(rnd.Intn(40) + 1))
		if _, err := s.house.Bid(mockCtx, id, bidder, value); err == nil {
			sent = sent.Add(value)
		} else {
			s.ErrorIs(err, domain.ErrBidTooLow)
		}

		a := s.get(id)
		s.True(a.HighestBid.GreaterThanOrEqual(prevHighest))
		prevHighest = a.HighestBid
		max := decimal.Zero
		for _, b := range bidders {
			mine, err := s.house.GetMyBid(mockCtx, id, b)
			s.Require().NoError(err)
			max = decimal.Max(max, mine)
		}
		s.True(a.HighestBid.Equal(max))
		check()
	}

	s.expire()
	winner := s.get(id).HighestBidder
	s.Require().False(winner.IsEmpty())

	callers := []domain.Address{carol, owner, winner, alice, bob, stranger}
	for _, caller := range callers {
		s.house.Settle(mockCtx, id, caller)
		check()
	}
	for _, b := range bidders {
		mine, err := s.house.GetMyBid(mockCtx, id, b)
		s.Require().NoError(err)
		s.True(mine.IsZero())
	}
	s.True(s.rail.TotalSent().Equal(sent))
}

func (s *houseSuite) TestSinglePayoutAndExclusivity() {
	id := s.create(100)
	s.bid(id, alice, 100)
	s.bid(id, bob, 150)
	s.expire()

	branches := map[domain.Address]settlement.Branch{}
	for _, caller := range []domain.Address{owner, alice, bob, stranger} {
		for attempt := 0; attempt < 3; attempt++ {
			receipt, err := s.house.Settle(mockCtx, id, caller)
			if err != nil {
				s.Contains([]error{domain.ErrAlreadySettled, domain.ErrNothingToWithdraw, domain.ErrNotEligible}, err)
				continue
			}
			_, seen := branches[caller]
			s.False(seen, "%s settled twice", caller)
			branches[caller] = receipt.Branch
		}
	}
	s.Equal(map[domain.Address]settlement.Branch{
		owner: settlement.BranchOwnerProceeds,
		alice: settlement.BranchRefund,
		bob:   settlement.BranchWinner,
	}, branches)
	s.True(s.rail.BalanceOf(owner).Equal(d(150)))
	s.True(s.rail.BalanceOf(alice).Equal(d(100)))
}

func (s *houseSuite) TestReentrantReceiver() {
	id := s.create(100)
	s.bid(id, alice, 100)
	s.bid(id, bob, 150)
	s.expire()

	reentered := 0
	s.rail.OnSend(func(c ctx.Ctx, to domain.Address, _ decimal.Decimal) {
		reentered++
		_, err := s.house.Settle(c, id, to)
		s.ErrorIs(err, domain.ErrReentrantCall)
		_, err = s.house.Bid(c, id, to, d(500))
		s.ErrorIs(err, domain.ErrAuctionAlreadyClosed)
	})

	_, err := s.house.Settle(mockCtx, id, alice)
	s.Require().NoError(err)
	_, err = s.house.Settle(mockCtx, id, owner)
	s.Require().NoError(err)
	s.Equal(2, reentered)

	s.True(s.rail.BalanceOf(alice).Equal(d(100)))
	s.True(s.rail.BalanceOf(owner).Equal(d(150)))
	_, err = s.house.Settle(mockCtx, id, alice)
	s.ErrorIs(err, domain.ErrNothingToWithdraw)
}

func (s *houseSuite) TestFailedPayoutIsRetriable() {
	id := s.create(100)
	s.bid(id, alice, 100)
	s.bid(id, bob, 150)
	s.expire()

	s.rail.Refuse(alice, true)
	_, err := s.house.Settle(mockCtx, id, alice)
	s.ErrorIs(err, domain.ErrPayoutFailed)
	mine, err := s.house.GetMyBid(mockCtx, id, alice)
	s.Require().NoError(err)
	s.True(mine.Equal(d(100)))

	// another party is not blocked
	s.assets.Refuse(bob, true)
	_, err = s.house.Settle(mockCtx, id, bob)
	s.ErrorIs(err, domain.ErrAssetTransferFailed)
	_, err = s.house.Settle(mockCtx, id, owner)
	s.Require().NoError(err)

	s.rail.Refuse(alice, false)
	s.assets.Refuse(bob, false)
	_, err = s.house.Settle(mockCtx, id, alice)
	s.Require().NoError(err)
	_, err = s.house.Settle(mockCtx, id, bob)
	s.Require().NoError(err)
	s.Equal(bob, s.itemOwner(id))
}

func (s *houseSuite) TestInvalidCreate() {
	_, err := s.house.CreateAuction(mockCtx, &auction.CreateParams{
		Creator:    owner,
		StartPrice: d(100),
		Duration:   time.Hour,
	})
	s.ErrorIs(err, domain.ErrInvalidInput)

	all, err := s.house.ListAuctions(mockCtx)
	s.Require().NoError(err)
	s.Empty(all)
}
