package recommend

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"housing_recommender/internal/config"
	"housing_recommender/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var (
	userID    = uuid.MustParse("00000000-0000-0000-0000-00000000aa01")
	neighbour = uuid.MustParse("00000000-0000-0000-0000-00000000aa02")

	savedID  = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	bookedID = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	topID    = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	westID   = uuid.MustParse("00000000-0000-0000-0000-0000000000c2")
	staleID  = uuid.MustParse("00000000-0000-0000-0000-0000000000c3")
)

// MockListingRepository
type MockListingRepository struct {
	ActiveListingsFunc func(ctx context.Context) ([]domain.Listing, error)
}

func (m *MockListingRepository) ActiveListings(ctx context.Context) ([]domain.Listing, error) {
	if m.ActiveListingsFunc != nil {
		return m.ActiveListingsFunc(ctx)
	}
	return nil, nil
}

// MockProfileBuilder
type MockProfileBuilder struct {
	BuildFunc func(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error)
}

func (m *MockProfileBuilder) Build(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, userID)
	}
	return domain.EmptyProfile(userID), nil
}

// MockCooccurrenceRepository
type MockCooccurrenceRepository struct {
	UsersWhoSavedFunc     func(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	SavedListingIDsOfFunc func(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

func (m *MockCooccurrenceRepository) UsersWhoSaved(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if m.UsersWhoSavedFunc != nil {
		return m.UsersWhoSavedFunc(ctx, listingIDs)
	}
	return map[uuid.UUID][]uuid.UUID{}, nil
}

func (m *MockCooccurrenceRepository) SavedListingIDsOf(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if m.SavedListingIDsOfFunc != nil {
		return m.SavedListingIDsOfFunc(ctx, userIDs)
	}
	return map[uuid.UUID][]uuid.UUID{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// kilimaniProfile — одно сохранение и одна бронь в Kilimani, средний бюджет 12000.
func kilimaniProfile() domain.UserProfile {
	p := domain.UserProfile{
		UserID: userID,
		SavedListings: []domain.Listing{
			{ID: savedID, Price: 12000, Location: "Kilimani", Type: domain.ListingTypeApartment},
		},
		BookedListings: []domain.Booking{{
			Listing:  domain.Listing{ID: bookedID, Price: 12000, Location: "Kilimani", Type: domain.ListingTypeApartment},
			RentPaid: 12000,
			Status:   domain.BookingStatusApproved,
		}},
		PreferredLocations: []domain.RankedKey{{Key: "Kilimani", Count: 2}},
		PreferredTypes:     []domain.RankedKey{{Key: "apartment", Count: 2}},
		AverageBudget:      12000,
		BudgetRange:        domain.NewBudgetRange(12000),
	}
	p.IndexExclusions()
	return p
}

func activeListings() []domain.Listing {
	return []domain.Listing{
		{ID: savedID, Price: 12000, Location: "Kilimani", Type: domain.ListingTypeApartment, Availability: domain.AvailabilityAvailable, CreatedAt: fixedNow, Rating: 5},
		{ID: bookedID, Price: 12000, Location: "Kilimani", Type: domain.ListingTypeApartment, Availability: domain.AvailabilityAvailable, CreatedAt: fixedNow, Rating: 5},
		{
			ID:           topID,
			Price:        12000,
			Location:     "Kilimani",
			Type:         domain.ListingTypeApartment,
			Availability: domain.AvailabilityAvailable,
			CreatedAt:    fixedNow,
			Rating:       4.8,
			ReviewCount:  5,
			BookingCount: 8,
			SaveCount:    10,
		},
		{ID: westID, Price: 24000, Location: "Westlands", Type: domain.ListingTypeStudio, Availability: domain.AvailabilityOccupied, CreatedAt: fixedNow},
		// ни одного сигнала — скор 0
		{ID: staleID, Price: 30000, Location: "Ruaka", Type: domain.ListingTypeHostel, Availability: domain.AvailabilityOccupied, CreatedAt: fixedNow.AddDate(-2, 0, 0)},
	}
}

// neighbourRepo — сосед сохранил то же объявление, что и пользователь, плюс объявление в Westlands.
func neighbourRepo() *MockCooccurrenceRepository {
	return &MockCooccurrenceRepository{
		UsersWhoSavedFunc: func(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
			return map[uuid.UUID][]uuid.UUID{savedID: {userID, neighbour}}, nil
		},
		SavedListingIDsOfFunc: func(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
			return map[uuid.UUID][]uuid.UUID{neighbour: {savedID, westID}}, nil
		},
	}
}

func newTestService(listings ListingRepository, profiles ProfileBuilder, cooc CooccurrenceRepository) *Service {
	return New(testLogger(), listings, profiles, cooc, config.DefaultRecommendConfig(), nil).
		WithClock(func() time.Time { return fixedNow })
}

func defaultService() *Service {
	return newTestService(
		&MockListingRepository{ActiveListingsFunc: func(ctx context.Context) ([]domain.Listing, error) {
			return activeListings(), nil
		}},
		&MockProfileBuilder{BuildFunc: func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
			return kilimaniProfile(), nil
		}},
		neighbourRepo(),
	)
}

func TestService_RecommendForUser(t *testing.T) {
	svc := defaultService()

	got, err := svc.RecommendForUser(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, topID, got[0].Listing.ID)
	assert.InDelta(t, 74.5, got[0].Score, 1e-9)
	assert.Equal(t, []string{
		"Perfectly matches your budget",
		"In Kilimani, your favourite area",
		"Highly rated (4.8/5)",
	}, got[0].Reasons)

	// 10 за свежесть + 5 от соседа
	assert.Equal(t, westID, got[1].Listing.ID)
	assert.InDelta(t, 15.0, got[1].Score, 1e-9)
	assert.InDelta(t, 5.0, got[1].Breakdown.Collaborative, 1e-9)
	assert.Equal(t, []string{"New listing"}, got[1].Reasons)

	for _, c := range got {
		assert.NotEqual(t, savedID, c.Listing.ID, "saved listing must be excluded")
		assert.NotEqual(t, bookedID, c.Listing.ID, "booked listing must be excluded")
		assert.NotEqual(t, staleID, c.Listing.ID, "zero-score listing must be dropped")
	}
}

func TestService_RecommendForUser_Limit(t *testing.T) {
	svc := defaultService()

	got, err := svc.RecommendForUser(context.Background(), userID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, topID, got[0].Listing.ID)
}

func TestService_RecommendForUser_Idempotent(t *testing.T) {
	svc := defaultService()

	first, err := svc.RecommendForUser(context.Background(), userID, 10)
	require.NoError(t, err)
	second, err := svc.RecommendForUser(context.Background(), userID, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_RecommendForUser_NoActivity(t *testing.T) {
	svc := newTestService(
		&MockListingRepository{ActiveListingsFunc: func(ctx context.Context) ([]domain.Listing, error) {
			return activeListings(), nil
		}},
		&MockProfileBuilder{},
		&MockCooccurrenceRepository{
			UsersWhoSavedFunc: func(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
				t.Error("co-occurrence must not be queried without saved listings")
				return nil, nil
			},
		},
	)

	got, err := svc.RecommendForUser(context.Background(), userID, 10)
	require.NoError(t, err)

	// Без профиля: 10 за цену без бюджета у каждого кандидата, ничего не исключается
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	for _, c := range got {
		assert.Equal(t, 10.0, c.Breakdown.Price)
		assert.Zero(t, c.Breakdown.Location)
		assert.Zero(t, c.Breakdown.Type)
		assert.Zero(t, c.Breakdown.Collaborative)
	}
}

func TestService_RecommendForUser_Failures(t *testing.T) {
	dbErr := errors.New("connection refused")

	tests := []struct {
		name     string
		listings *MockListingRepository
		profiles *MockProfileBuilder
		cooc     *MockCooccurrenceRepository
	}{
		{
			name: "listings unavailable",
			listings: &MockListingRepository{ActiveListingsFunc: func(ctx context.Context) ([]domain.Listing, error) {
				return nil, dbErr
			}},
			profiles: &MockProfileBuilder{BuildFunc: func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
				return kilimaniProfile(), nil
			}},
			cooc: neighbourRepo(),
		},
		{
			name: "profile unavailable",
			listings: &MockListingRepository{ActiveListingsFunc: func(ctx context.Context) ([]domain.Listing, error) {
				return activeListings(), nil
			}},
			profiles: &MockProfileBuilder{BuildFunc: func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
				return domain.EmptyProfile(id), dbErr
			}},
			cooc: neighbourRepo(),
		},
		{
			name: "co-occurrence unavailable",
			listings: &MockListingRepository{ActiveListingsFunc: func(ctx context.Context) ([]domain.Listing, error) {
				return activeListings(), nil
			}},
			profiles: &MockProfileBuilder{BuildFunc: func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
				return kilimaniProfile(), nil
			}},
			cooc: &MockCooccurrenceRepository{
				UsersWhoSavedFunc: func(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
					return nil, dbErr
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.listings, tt.profiles, tt.cooc)

			got, err := svc.RecommendForUser(context.Background(), userID, 10)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDataUnavailable)
			assert.ErrorIs(t, err, dbErr)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestService_BuildProfile(t *testing.T) {
	svc := defaultService()

	p, err := svc.BuildProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 12000.0, p.AverageBudget)
	assert.True(t, p.Excludes(savedID))
}

func TestService_BuildProfile_Failure(t *testing.T) {
	dbErr := errors.New("timeout")
	svc := newTestService(
		&MockListingRepository{},
		&MockProfileBuilder{BuildFunc: func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
			return domain.UserProfile{}, dbErr
		}},
		&MockCooccurrenceRepository{},
	)

	p, err := svc.BuildProfile(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.Equal(t, userID, p.UserID)
	assert.Zero(t, p.AverageBudget)
	assert.True(t, p.BudgetRange.IsUnbounded())
}

func TestService_WithClock(t *testing.T) {
	svc := New(testLogger(), &MockListingRepository{}, &MockProfileBuilder{}, &MockCooccurrenceRepository{}, config.DefaultRecommendConfig(), nil)

	got := svc.WithClock(func() time.Time { return fixedNow })
	assert.Same(t, svc, got)
	assert.Equal(t, fixedNow, svc.ranker.engine.Now())
}
