package profile

import (
	"context"
	"fmt"
	"log/slog"

	"housing_recommender/internal/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ActivityRepository — история пользователя, из которой строится профиль.
type ActivityRepository interface {
	SavedListingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error)
	ApprovedOrCompletedBookingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
}

// Builder собирает профиль предпочтений из сохранений и бронирований.
type Builder struct {
	log  *slog.Logger
	repo ActivityRepository
}

func New(log *slog.Logger, repo ActivityRepository) *Builder {
	return &Builder{
		log:  log,
		repo: repo,
	}
}

// Build читает активность пользователя и строит профиль.
// Пользователь без активности (или неизвестный) получает пустой профиль без ошибки.
func (b *Builder) Build(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	const op = "profile.Builder.Build"

	var (
		saved    []domain.Listing
		bookings []domain.Booking
	)

	// Сохранения и бронирования читаются параллельно
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		saved, err = b.repo.SavedListingsOf(gctx, userID)
		if err != nil {
			return fmt.Errorf("saved listings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = b.repo.ApprovedOrCompletedBookingsOf(gctx, userID)
		if err != nil {
			return fmt.Errorf("bookings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.EmptyProfile(userID), fmt.Errorf("%s: %w", op, err)
	}

	p := Assemble(userID, saved, bookings)

	b.log.Debug("profile built",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.Int("saved", len(p.SavedListings)),
		slog.Int("booked", len(p.BookedListings)),
		slog.Float64("average_budget", p.AverageBudget),
	)

	return p, nil
}

// Assemble строит профиль из уже прочитанной активности.
func Assemble(userID uuid.UUID, saved []domain.Listing, bookings []domain.Booking) domain.UserProfile {
	p := domain.EmptyProfile(userID)

	// Pending/rejected/cancelled не влияют ни на бюджет, ни на районы
	p.BookedListings = lo.Filter(bookings, func(b domain.Booking, _ int) bool {
		return b.Status.CountsTowardsProfile()
	})

	bookedIDs := lo.SliceToMap(p.BookedListings, func(b domain.Booking) (uuid.UUID, struct{}) {
		return b.Listing.ID, struct{}{}
	})
	p.SavedListings = lo.UniqBy(
		lo.Filter(saved, func(l domain.Listing, _ int) bool {
			_, booked := bookedIDs[l.ID]
			return !booked
		}),
		func(l domain.Listing) uuid.UUID { return l.ID },
	)

	// Частоты считаются по уникальным объявлениям: повторная бронь того же объекта не усиливает район
	bookedListings := lo.UniqBy(
		lo.Map(p.BookedListings, func(b domain.Booking, _ int) domain.Listing { return b.Listing }),
		func(l domain.Listing) uuid.UUID { return l.ID },
	)

	locations := make(map[string]int)
	types := make(map[string]int)
	for _, l := range append(append([]domain.Listing{}, p.SavedListings...), bookedListings...) {
		if loc := domain.NormalizeLocation(l.Location); loc != "" {
			locations[loc]++
		}
		if l.Type != domain.ListingTypeUnspecified {
			types[l.Type.String()]++
		}
	}
	p.PreferredLocations = domain.RankByFrequency(locations)
	p.PreferredTypes = domain.RankByFrequency(types)

	if len(p.BookedListings) > 0 {
		total := lo.SumBy(p.BookedListings, func(b domain.Booking) int64 { return b.RentPaid })
		p.AverageBudget = float64(total) / float64(len(p.BookedListings))
	}
	p.BudgetRange = domain.NewBudgetRange(p.AverageBudget)

	p.IndexExclusions()
	return p
}
