package similar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"housing_recommender/internal/domain"
	"housing_recommender/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockListingRepository
type MockListingRepository struct {
	ActiveListingsFunc func(ctx context.Context) ([]domain.Listing, error)
	ListingByIDFunc    func(ctx context.Context, id uuid.UUID) (domain.Listing, error)
}

func (m *MockListingRepository) ActiveListings(ctx context.Context) ([]domain.Listing, error) {
	if m.ActiveListingsFunc != nil {
		return m.ActiveListingsFunc(ctx)
	}
	return nil, nil
}

func (m *MockListingRepository) ListingByID(ctx context.Context, id uuid.UUID) (domain.Listing, error) {
	if m.ListingByIDFunc != nil {
		return m.ListingByIDFunc(ctx, id)
	}
	return domain.Listing{}, repository.ErrListingNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func id(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func source() domain.Listing {
	return domain.Listing{
		ID:        id(1),
		Price:     20000,
		Location:  "Kilimani",
		Type:      domain.ListingTypeApartment,
		Bedrooms:  2,
		Bathrooms: 1,
	}
}

func TestSimilarity(t *testing.T) {
	src := source()

	tests := []struct {
		name      string
		candidate domain.Listing
		want      int
	}{
		{
			name:      "identical attributes",
			candidate: domain.Listing{Price: 20000, Location: "Kilimani", Type: domain.ListingTypeApartment, Bedrooms: 2, Bathrooms: 1},
			want:      80,
		},
		{
			name:      "location alias",
			candidate: domain.Listing{Price: 90000, Location: "kile", Type: domain.ListingTypeHouse, Bedrooms: 5, Bathrooms: 3},
			want:      30,
		},
		{
			name:      "price at upper tolerance",
			candidate: domain.Listing{Price: 24000, Location: "Westlands", Type: domain.ListingTypeHouse, Bedrooms: 5, Bathrooms: 3},
			want:      15,
		},
		{
			name:      "price just outside tolerance",
			candidate: domain.Listing{Price: 24001, Location: "Westlands", Type: domain.ListingTypeHouse, Bedrooms: 5, Bathrooms: 3},
			want:      0,
		},
		{
			name:      "price at lower tolerance",
			candidate: domain.Listing{Price: 16000, Location: "Westlands", Type: domain.ListingTypeHouse, Bedrooms: 5, Bathrooms: 3},
			want:      15,
		},
		{
			name:      "type and rooms",
			candidate: domain.Listing{Price: 50000, Location: "Ruaka", Type: domain.ListingTypeApartment, Bedrooms: 2, Bathrooms: 1},
			want:      35,
		},
		{
			name:      "nothing in common",
			candidate: domain.Listing{Price: 100000, Location: "Juja", Type: domain.ListingTypeHostel, Bedrooms: 0, Bathrooms: 0},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Similarity(src, tt.candidate))
		})
	}
}

func TestRank(t *testing.T) {
	src := source()
	candidates := []domain.Listing{
		src,
		{ID: id(5), Price: 20000, Location: "Kilimani", Type: domain.ListingTypeHouse, Bedrooms: 9, Bathrooms: 9, Rating: 3},
		{ID: id(4), Price: 20000, Location: "Kilimani", Type: domain.ListingTypeHouse, Bedrooms: 9, Bathrooms: 9, Rating: 4.5},
		{ID: id(3), Price: 20000, Location: "Kilimani", Type: domain.ListingTypeHouse, Bedrooms: 9, Bathrooms: 9, Rating: 4.5},
		{ID: id(2), Price: 21000, Location: "Kilimani", Type: domain.ListingTypeApartment, Bedrooms: 2, Bathrooms: 1},
		{ID: id(6), Price: 90000, Location: "Juja", Type: domain.ListingTypeHostel, Bedrooms: 0, Bathrooms: 0, Rating: 5},
	}

	got := Rank(src, candidates)

	ids := make([]uuid.UUID, 0, len(got))
	for _, s := range got {
		assert.NotEqual(t, src.ID, s.Listing.ID)
		assert.Greater(t, s.Similarity, 0)
		ids = append(ids, s.Listing.ID)
	}
	assert.Equal(t, []uuid.UUID{id(2), id(3), id(4), id(5)}, ids)
	assert.Equal(t, 80, got[0].Similarity)
}

func TestService_GetSimilarListings(t *testing.T) {
	src := source()
	repo := &MockListingRepository{
		ListingByIDFunc: func(ctx context.Context, lid uuid.UUID) (domain.Listing, error) {
			return src, nil
		},
		ActiveListingsFunc: func(ctx context.Context) ([]domain.Listing, error) {
			return []domain.Listing{
				src,
				{ID: id(2), Price: 21000, Location: "Kilimani", Type: domain.ListingTypeApartment, Bedrooms: 2, Bathrooms: 1},
				{ID: id(3), Price: 20000, Location: "Kilimani", Type: domain.ListingTypeHouse, Bedrooms: 9, Bathrooms: 9},
				{ID: id(4), Price: 19000, Location: "Westlands", Type: domain.ListingTypeHouse, Bedrooms: 9, Bathrooms: 9},
			}, nil
		},
	}
	svc := New(testLogger(), repo, 10, 50, nil)

	got, err := svc.GetSimilarListings(context.Background(), src.ID, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id(2), got[0].Listing.ID)
	assert.Equal(t, id(3), got[1].Listing.ID)

	got, err = svc.GetSimilarListings(context.Background(), src.ID, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestService_GetSimilarListings_UnknownListing(t *testing.T) {
	svc := New(testLogger(), &MockListingRepository{
		ListingByIDFunc: func(ctx context.Context, lid uuid.UUID) (domain.Listing, error) {
			return domain.Listing{}, fmt.Errorf("repo: %w", repository.ErrListingNotFound)
		},
	}, 10, 50, nil)

	got, err := svc.GetSimilarListings(context.Background(), uuid.New(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_GetSimilarListings_Failure(t *testing.T) {
	dbErr := errors.New("too many connections")
	svc := New(testLogger(), &MockListingRepository{
		ListingByIDFunc: func(ctx context.Context, lid uuid.UUID) (domain.Listing, error) {
			return source(), nil
		},
		ActiveListingsFunc: func(ctx context.Context) ([]domain.Listing, error) {
			return nil, dbErr
		},
	}, 10, 50, nil)

	got, err := svc.GetSimilarListings(context.Background(), id(1), 5)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.ErrorIs(t, err, dbErr)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
