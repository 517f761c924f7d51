package resilient

import (
	"context"
	"time"

	"housing_recommender/internal/domain"

	"github.com/google/uuid"
)

// ListingSource — оборачиваемый репозиторий объявлений.
type ListingSource interface {
	ActiveListings(ctx context.Context) ([]domain.Listing, error)
	ListingByID(ctx context.Context, id uuid.UUID) (domain.Listing, error)
}

// ActivitySource — оборачиваемый репозиторий активности.
type ActivitySource interface {
	SavedListingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error)
	ApprovedOrCompletedBookingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	UsersWhoSaved(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	SavedListingIDsOf(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	RecentActivity(ctx context.Context, since time.Time) (map[uuid.UUID]domain.RecentActivity, error)
}

// ListingRepository — репозиторий объявлений за circuit breaker.
type ListingRepository struct {
	next    ListingSource
	breaker *Breaker
}

func NewListingRepository(next ListingSource, breaker *Breaker) *ListingRepository {
	return &ListingRepository{next: next, breaker: breaker}
}

func (r *ListingRepository) ActiveListings(ctx context.Context) ([]domain.Listing, error) {
	return execute(r.breaker, func() ([]domain.Listing, error) {
		return r.next.ActiveListings(ctx)
	})
}

func (r *ListingRepository) ListingByID(ctx context.Context, id uuid.UUID) (domain.Listing, error) {
	return execute(r.breaker, func() (domain.Listing, error) {
		return r.next.ListingByID(ctx, id)
	})
}

// ActivityRepository — репозиторий активности за circuit breaker.
type ActivityRepository struct {
	next    ActivitySource
	breaker *Breaker
}

func NewActivityRepository(next ActivitySource, breaker *Breaker) *ActivityRepository {
	return &ActivityRepository{next: next, breaker: breaker}
}

func (r *ActivityRepository) SavedListingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	return execute(r.breaker, func() ([]domain.Listing, error) {
		return r.next.SavedListingsOf(ctx, userID)
	})
}

func (r *ActivityRepository) ApprovedOrCompletedBookingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return execute(r.breaker, func() ([]domain.Booking, error) {
		return r.next.ApprovedOrCompletedBookingsOf(ctx, userID)
	})
}

func (r *ActivityRepository) UsersWhoSaved(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	return execute(r.breaker, func() (map[uuid.UUID][]uuid.UUID, error) {
		return r.next.UsersWhoSaved(ctx, listingIDs)
	})
}

func (r *ActivityRepository) SavedListingIDsOf(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	return execute(r.breaker, func() (map[uuid.UUID][]uuid.UUID, error) {
		return r.next.SavedListingIDsOf(ctx, userIDs)
	})
}

func (r *ActivityRepository) RecentActivity(ctx context.Context, since time.Time) (map[uuid.UUID]domain.RecentActivity, error) {
	return execute(r.breaker, func() (map[uuid.UUID]domain.RecentActivity, error) {
		return r.next.RecentActivity(ctx, since)
	})
}
