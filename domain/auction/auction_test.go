package auction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/x-xyz/settlement/domain"
)

var (
	alice = domain.Address("0x00000000000000000000000000000000000000a1")
	bob   = domain.Address("0x00000000000000000000000000000000000000b2")
)

func newOpen(end time.Time) *Auction {
	return &Auction{
		Id:         1,
		Owner:      alice,
		StartPrice: decimal.NewFromInt(100),
		EndTime:    end,
		IsActive:   true,
	}
}

func TestPhase(t *testing.T) {
	req := require.New(t)
	end := time.Unix(1000, 0)
	a := newOpen(end)

	req.Equal(PhaseOpen, a.Phase(end.Add(-time.Second)))
	req.Equal(PhaseOpen, a.Phase(end), "deadline itself is still open")
	req.Equal(PhaseClosed, a.Phase(end.Add(time.Nanosecond)))
	req.True(a.IsDue(end.Add(time.Second)))
	req.False(a.IsDue(end))

	a.IsActive = false
	req.Equal(PhaseClosed, a.Phase(end.Add(-time.Hour)))
	req.False(a.IsDue(end.Add(time.Hour)))
}

func TestView(t *testing.T) {
	req := require.New(t)
	end := time.Unix(1000, 0)
	a := newOpen(end)
	a.AddParticipant(bob)

	v := a.View(end.Add(time.Second))
	req.False(v.IsActive)
	req.True(a.IsActive, "view must not touch the stored record")

	v.Participants[0] = alice
	req.Equal(bob, a.Participants[0])

	req.True(a.View(end).IsActive)
}

func TestTimeRemaining(t *testing.T) {
	req := require.New(t)
	end := time.Unix(1000, 0)
	a := newOpen(end)

	req.Equal(10*time.Second, a.TimeRemaining(end.Add(-10*time.Second)))
	req.Equal(time.Duration(0), a.TimeRemaining(end))
	req.Equal(time.Duration(0), a.TimeRemaining(end.Add(time.Minute)))
}

func TestParticipants(t *testing.T) {
	req := require.New(t)
	a := newOpen(time.Unix(1000, 0))

	req.True(a.AddParticipant("0x00000000000000000000000000000000000000B2"))
	req.False(a.AddParticipant(bob))
	req.True(a.AddParticipant(alice))
	req.Equal([]domain.Address{bob, alice}, a.Participants)
	req.True(a.IsParticipant(bob))

	req.False(a.HasBids())
	req.False(a.IsLeader(bob))
	a.HighestBidder = bob
	req.True(a.HasBids())
	req.True(a.IsLeader("0x00000000000000000000000000000000000000B2"))
	req.True(a.IsOwner(alice))
}

func TestFindAllOptions(t *testing.T) {
	req := require.New(t)

	opts, err := GetFindAllOptions(
		WithSort(domain.SortDirDesc),
		WithPagination(2, 5),
		WithOwner("0x00000000000000000000000000000000000000B2"),
	)
	req.NoError(err)
	req.Equal(domain.SortDir(domain.SortDirDesc), *opts.SortDir)
	req.Equal(int32(2), *opts.Offset)
	req.Equal(int32(5), *opts.Limit)
	req.Equal(bob, *opts.Owner)

	_, err = GetFindAllOptions(WithPagination(-1, 5))
	req.ErrorIs(err, domain.ErrInvalidInput)
}
