package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/domain"
	mAsset "github.com/x-xyz/settlement/domain/asset/mocks"
	"github.com/x-xyz/settlement/domain/auction"
	mAuction "github.com/x-xyz/settlement/domain/auction/mocks"
	"github.com/x-xyz/settlement/domain/event"
	mEvent "github.com/x-xyz/settlement/domain/event/mocks"
	"github.com/x-xyz/settlement/domain/ledger"
	"github.com/x-xyz/settlement/service/assetregistry"
	auctionRepo "github.com/x-xyz/settlement/stores/auction/repository"
	ledgerRepo "github.com/x-xyz/settlement/stores/ledger/repository"
)

var (
	mockCtx = ctx.Background()
	custody = domain.Address("0x000000000000000000000000000000000000c0de")
	creator = domain.Address("0x00000000000000000000000000000000000000a1")
	bidderA = domain.Address("0x00000000000000000000000000000000000000b2")
	bidderB = domain.Address("0x00000000000000000000000000000000000000c3")
	item    = domain.ItemId("item-1")
)

func ofType(t event.Type) interface{} {
	return mock.MatchedBy(func(e *event.Event) bool { return e.Type == t })
}

type auctionSuite struct {
	suite.Suite

	now           time.Time
	repo          auction.Repo
	participation auction.ParticipationRepo
	ledgerRepo    ledger.Repo
	assets        *mAsset.Registry
	notifier      *mEvent.Notifier
	im            *impl
}

func (s *auctionSuite) SetupTest() {
	s.now = time.Unix(1_000_000, 0).UTC()
	s.repo = auctionRepo.NewMemoryRepo()
	s.participation = auctionRepo.NewMemoryParticipationRepo()
	s.ledgerRepo = ledgerRepo.NewMemoryRepo()
	s.assets = &mAsset.Registry{}
	s.notifier = &mEvent.Notifier{}
	s.im = s.newImpl(s.repo)
}

func (s *auctionSuite) newImpl(repo auction.Repo) *impl {
	return New(&AuctionUseCaseCfg{
		Repo:          repo,
		Participation: s.participation,
		LedgerRepo:    s.ledgerRepo,
		Assets:        s.assets,
		Notifier:      s.notifier,
		Custody:       custody,
		Metrics:       metrics.NewLogMetrics("auction"),
		Now:           func() time.Time { return s.now },
	}).(*impl)
}

func (s *auctionSuite) TearDownTest() {
	s.assets.AssertExpectations(s.T())
	s.notifier.AssertExpectations(s.T())
}

func TestAuctionSuite(t *testing.T) {
	suite.Run(t, new(auctionSuite))
}

func (s *auctionSuite) params() *auction.CreateParams {
	return &auction.CreateParams{
		Creator:     creator,
		StartPrice:  decimal.NewFromInt(100),
		Duration:    time.Hour,
		MetadataUri: "ipfs://meta",
	}
}

func (s *auctionSuite) create() auction.Id {
	s.assets.On("Mint", mock.Anything, creator).Return(item, nil).Once()
	s.assets.On("SetMetadata", mock.Anything, item, "ipfs://meta").Return(nil).Once()
	s.assets.On("Transfer", mock.Anything, item, creator, custody).Return(true).Once()
	s.notifier.On("Notify", mock.Anything, ofType(event.TypeAuctionCreated)).Once()

	id, err := s.im.Create(mockCtx, s.params())
	s.Require().NoError(err)
	return id
}

// bid stores the ledger entry the way the bid ledger does before recording
func (s *auctionSuite) bid(id auction.Id, bidder domain.Address, cumulative int64) error {
	s.Require().NoError(s.ledgerRepo.Upsert(mockCtx, &ledger.Entry{AuctionId: id, Bidder: bidder, Amount: decimal.NewFromInt(cumulative)}))
	return s.im.RecordBid(mockCtx, id, bidder, decimal.NewFromInt(cumulative))
}

func (s *auctionSuite) TestCreate() {
	id := s.create()
	s.Equal(auction.Id(1), id)

	a, err := s.repo.FindOne(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(creator, a.Owner)
	s.Equal(item, a.ItemId)
	s.True(a.IsActive)
	s.Equal(s.now.Add(time.Hour), a.EndTime)
	s.True(a.HighestBid.IsZero())
	s.False(a.HasBids())

	ids, err := s.participation.FindByAccount(mockCtx, creator)
	s.Require().NoError(err)
	s.Equal([]auction.Id{id}, ids)

	s.Equal(auction.Id(2), s.create())
}

func (s *auctionSuite) TestCreateInvalid() {
	cases := []struct {
		desc   string
		mutate func(p *auction.CreateParams)
	}{
		{"no metadata", func(p *auction.CreateParams) { p.MetadataUri = "" }},
		{"blank metadata", func(p *auction.CreateParams) { p.MetadataUri = "   " }},
		{"bad creator", func(p *auction.CreateParams) { p.Creator = "bob" }},
		{"zero price", func(p *auction.CreateParams) { p.StartPrice = decimal.Zero }},
		{"fractional price", func(p *auction.CreateParams) { p.StartPrice = decimal.RequireFromString("1.5") }},
		{"zero duration", func(p *auction.CreateParams) { p.Duration = 0 }},
	}
	for _, c := range cases {
		p := s.params()
		c.mutate(p)
		_, err := s.im.Create(mockCtx, p)
		s.ErrorIs(err, domain.ErrInvalidInput, c.desc)
	}
	_, err := s.im.Create(mockCtx, nil)
	s.ErrorIs(err, domain.ErrInvalidInput)

	all, err := s.repo.FindAll(mockCtx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *auctionSuite) TestCreateCustodyRefused() {
	repo := &mAuction.Repo{}
	s.im = s.newImpl(repo)

	s.assets.On("Mint", mock.Anything, creator).Return(item, nil).Once()
	s.assets.On("SetMetadata", mock.Anything, item, "ipfs://meta").Return(nil).Once()
	s.assets.On("Transfer", mock.Anything, item, creator, custody).Return(false).Once()

	_, err := s.im.Create(mockCtx, s.params())
	s.ErrorIs(err, domain.ErrAssetTransferFailed)
	// no id reserved, no record written
	repo.AssertExpectations(s.T())
}

func (s *auctionSuite) TestCreateRecordFailureReleasesCustody() {
	repo := &mAuction.Repo{}
	s.im = s.newImpl(repo)
	boom := errors.New("mongo down")

	repo.On("NextId", mock.Anything).Return(auction.Id(0), boom).Once()
	s.assets.On("Mint", mock.Anything, creator).Return(item, nil).Once()
	s.assets.On("SetMetadata", mock.Anything, item, "ipfs://meta").Return(nil).Once()
	s.assets.On("Transfer", mock.Anything, item, creator, custody).Return(true).Once()
	s.assets.On("Transfer", mock.Anything, item, custody, creator).Return(true).Once()
	_, err := s.im.Create(mockCtx, s.params())
	s.ErrorIs(err, boom)

	repo.On("NextId", mock.Anything).Return(auction.Id(1), nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(boom).Once()
	s.assets.On("Mint", mock.Anything, creator).Return(item, nil).Once()
	s.assets.On("SetMetadata", mock.Anything, item, "ipfs://meta").Return(nil).Once()
	s.assets.On("Transfer", mock.Anything, item, creator, custody).Return(true).Once()
	s.assets.On("Transfer", mock.Anything, item, custody, creator).Return(false).Once()
	_, err = s.im.Create(mockCtx, s.params())
	s.ErrorIs(err, boom)

	repo.AssertExpectations(s.T())
}

func (s *auctionSuite) TestCreateRecordFailureKeepsItemWithCreator() {
	repo := &mAuction.Repo{}
	registry := assetregistry.New()
	im := New(&AuctionUseCaseCfg{
		Repo:          repo,
		Participation: s.participation,
		LedgerRepo:    s.ledgerRepo,
		Assets:        registry,
		Notifier:      s.notifier,
		Custody:       custody,
		Metrics:       metrics.NewLogMetrics("auction"),
		Now:           func() time.Time { return s.now },
	})

	repo.On("NextId", mock.Anything).Return(auction.Id(1), nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()
	_, err := im.Create(mockCtx, s.params())
	s.Require().Error(err)

	holder, ok := registry.OwnerOf("item-1")
	s.Require().True(ok)
	s.Equal(creator, holder)
	repo.AssertExpectations(s.T())
}

func (s *auctionSuite) TestCreateMintFailed() {
	boom := errors.New("boom")
	s.assets.On("Mint", mock.Anything, creator).Return(domain.ItemId(""), boom).Once()

	_, err := s.im.Create(mockCtx, s.params())
	s.ErrorIs(err, boom)
}

func (s *auctionSuite) TestRecordBid() {
	id := s.create()

	s.ErrorIs(s.bid(id, bidderA, 99), domain.ErrBidTooLow)
	s.NoError(s.bid(id, bidderA, 100))
	s.NoError(s.bid(id, bidderB, 150))
	s.ErrorIs(s.bid(id, bidderA, 150), domain.ErrBidTooLow, "ties keep the earlier leader")
	s.NoError(s.bid(id, bidderA, 160))

	a, err := s.repo.FindOne(mockCtx, id)
	s.Require().NoError(err)
	s.True(a.HighestBid.Equal(decimal.NewFromInt(160)))
	s.Equal(bidderA, a.HighestBidder)
	s.Equal([]domain.Address{bidderA, bidderB}, a.Participants)

	ids, err := s.participation.FindByAccount(mockCtx, bidderB)
	s.Require().NoError(err)
	s.Equal([]auction.Id{id}, ids)
}

func (s *auctionSuite) TestRecordBidGuards() {
	id := s.create()

	s.ErrorIs(s.bid(id, creator, 200), domain.ErrNotEligible)

	s.Require().NoError(s.ledgerRepo.Upsert(mockCtx, &ledger.Entry{AuctionId: id, Bidder: bidderA, Amount: decimal.NewFromInt(100)}))
	s.ErrorIs(s.im.RecordBid(mockCtx, id, bidderA, decimal.NewFromInt(500)), domain.ErrInvalidInput)

	s.ErrorIs(s.im.RecordBid(mockCtx, id+1, bidderA, decimal.NewFromInt(500)), domain.ErrNotFound)

	s.now = s.now.Add(2 * time.Hour)
	s.ErrorIs(s.bid(id, bidderA, 200), domain.ErrAuctionAlreadyClosed)
}

func (s *auctionSuite) TestExpireIfDue() {
	id := s.create()

	a, err := s.im.ExpireIfDue(mockCtx, id)
	s.Require().NoError(err)
	s.True(a.IsActive)

	// the deadline itself is still open
	s.now = s.now.Add(time.Hour)
	a, err = s.im.ExpireIfDue(mockCtx, id)
	s.Require().NoError(err)
	s.True(a.IsActive)

	s.now = s.now.Add(time.Second)
	s.notifier.On("Notify", mock.Anything, ofType(event.TypeAuctionClosed)).Once()
	a, err = s.im.ExpireIfDue(mockCtx, id)
	s.Require().NoError(err)
	s.False(a.IsActive)

	// idempotent, no second notification
	a, err = s.im.ExpireIfDue(mockCtx, id)
	s.Require().NoError(err)
	s.False(a.IsActive)

	_, err = s.im.ExpireIfDue(mockCtx, id+1)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *auctionSuite) TestReadsDerivePhase() {
	id := s.create()

	remaining, err := s.im.TimeRemaining(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(time.Hour, remaining)

	s.now = s.now.Add(2 * time.Hour)

	view, err := s.im.FindOne(mockCtx, id)
	s.Require().NoError(err)
	s.False(view.IsActive)

	remaining, err = s.im.TimeRemaining(mockCtx, id)
	s.Require().NoError(err)
	s.Zero(remaining)

	all, err := s.im.FindAll(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.False(all[0].IsActive)

	mine, err := s.im.FindByAccount(mockCtx, creator)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.False(mine[0].IsActive)

	// reads never write
	stored, err := s.repo.FindOne(mockCtx, id)
	s.Require().NoError(err)
	s.True(stored.IsActive)
}
