package recommend

import (
	"testing"
	"time"

	"housing_recommender/internal/config"
	"housing_recommender/internal/domain"
	"housing_recommender/internal/services/scoring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRanker() *Ranker {
	clock := func() time.Time { return fixedNow }
	return NewRanker(
		scoring.NewEngine(config.DefaultScoringConfig()).WithClock(clock),
		scoring.NewReasonGenerator(clock),
	)
}

func TestRanker_Rank_TieBreakByID(t *testing.T) {
	r := newTestRanker()

	twin := func(id string) domain.Listing {
		return domain.Listing{
			ID:           uuid.MustParse(id),
			Price:        15000,
			Location:     "Lavington",
			Type:         domain.ListingTypeHouse,
			Availability: domain.AvailabilityAvailable,
			CreatedAt:    fixedNow,
		}
	}
	candidates := []domain.Listing{
		twin("00000000-0000-0000-0000-00000000000f"),
		twin("00000000-0000-0000-0000-000000000001"),
		twin("00000000-0000-0000-0000-00000000000a"),
	}

	got := r.Rank(domain.EmptyProfile(userID), candidates, nil, 10)
	require.Len(t, got, 3)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", got[0].Listing.ID.String())
	assert.Equal(t, "00000000-0000-0000-0000-00000000000a", got[1].Listing.ID.String())
	assert.Equal(t, "00000000-0000-0000-0000-00000000000f", got[2].Listing.ID.String())
}

func TestRanker_Rank_Bounds(t *testing.T) {
	r := newTestRanker()
	p := kilimaniProfile()

	tests := []struct {
		name    string
		n       int
		wantLen int
	}{
		{name: "zero", n: 0, wantLen: 0},
		{name: "negative", n: -3, wantLen: 0},
		{name: "truncated", n: 1, wantLen: 1},
		{name: "more than available", n: 100, wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Rank(p, activeListings(), nil, tt.n)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestRanker_Rank_SortedAndExcluded(t *testing.T) {
	r := newTestRanker()
	p := kilimaniProfile()

	got := r.Rank(p, activeListings(), scoring.CollaborativeIndex{westID: 4}, 10)

	for i, c := range got {
		assert.False(t, p.Excludes(c.Listing.ID))
		assert.Greater(t, c.Score, 0.0)
		assert.LessOrEqual(t, len(c.Reasons), scoring.MaxReasons)
		if i > 0 {
			prev := got[i-1]
			assert.True(t, prev.Score > c.Score ||
				(prev.Score == c.Score && domain.CompareIDs(prev.Listing.ID, c.Listing.ID) < 0))
		}
	}

	// коллаборативная часть ограничена 20
	require.Len(t, got, 2)
	assert.Equal(t, westID, got[1].Listing.ID)
	assert.InDelta(t, 20.0, got[1].Breakdown.Collaborative, 1e-9)
}
