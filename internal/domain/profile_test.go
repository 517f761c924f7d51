package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBudgetRange(t *testing.T) {
	r := NewBudgetRange(12000)
	assert.InDelta(t, 8400, r.Min, 1e-9)
	assert.InDelta(t, 15600, r.Max, 1e-9)
	assert.False(t, r.IsUnbounded())

	unbounded := NewBudgetRange(0)
	assert.Equal(t, 0.0, unbounded.Min)
	assert.True(t, unbounded.IsUnbounded())
}

func TestUserProfile_Excludes(t *testing.T) {
	saved := uuid.New()
	booked := uuid.New()
	other := uuid.New()

	p := UserProfile{
		SavedListings:  []Listing{{ID: saved}},
		BookedListings: []Booking{{Listing: Listing{ID: booked}, RentPaid: 10000}},
	}

	// без индекса — линейный поиск
	assert.True(t, p.Excludes(saved))
	assert.True(t, p.Excludes(booked))
	assert.False(t, p.Excludes(other))

	p.IndexExclusions()
	assert.True(t, p.Excludes(saved))
	assert.True(t, p.Excludes(booked))
	assert.False(t, p.Excludes(other))
}

func TestUserProfile_LocationRank(t *testing.T) {
	p := UserProfile{
		PreferredLocations: []RankedKey{
			{Key: "Kilimani", Count: 3},
			{Key: "Westlands", Count: 1},
		},
	}

	rank, ok := p.LocationRank("kilimani")
	assert.True(t, ok)
	assert.Equal(t, 0, rank)

	rank, ok = p.LocationRank("Westie")
	assert.True(t, ok)
	assert.Equal(t, 1, rank)

	_, ok = p.LocationRank("Karen")
	assert.False(t, ok)
}

func TestUserProfile_PrefersType(t *testing.T) {
	p := UserProfile{PreferredTypes: []RankedKey{{Key: "bedsitter", Count: 2}}}
	assert.True(t, p.PrefersType(ListingTypeBedsitter))
	assert.False(t, p.PrefersType(ListingTypeHouse))
}

func TestEmptyProfile(t *testing.T) {
	id := uuid.New()
	p := EmptyProfile(id)
	assert.Equal(t, id, p.UserID)
	assert.False(t, p.HasBudget())
	assert.True(t, p.BudgetRange.IsUnbounded())
	assert.Empty(t, p.PreferredLocations)
	assert.Empty(t, p.SavedListingIDs())
}

func TestListing_AgeInDays(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, Listing{CreatedAt: now}.AgeInDays(now))
	assert.Equal(t, 0, Listing{CreatedAt: now.Add(-23 * time.Hour)}.AgeInDays(now))
	assert.Equal(t, 1, Listing{CreatedAt: now.Add(-25 * time.Hour)}.AgeInDays(now))
	assert.Equal(t, 300, Listing{CreatedAt: now.AddDate(0, 0, -300)}.AgeInDays(now))
	assert.Equal(t, 0, Listing{CreatedAt: now.Add(time.Hour)}.AgeInDays(now))
}
