package scoring

import (
	"fmt"
	"math"
	"time"

	"housing_recommender/internal/domain"
)

const (
	// MaxReasons — сколько объяснений показываем под рекомендацией.
	MaxReasons = 3

	perfectPriceTolerance = 0.10
	highRatingThreshold   = 4.5
	popularBookingsAbove  = 5
	minReviewsToMention   = 3
	newListingDays        = 7
)

// reasonRule возвращает текст объяснения и признак того, что правило сработало.
type reasonRule func(c domain.ScoredCandidate, p domain.UserProfile, now time.Time) (string, bool)

// ReasonGenerator выдаёт до трёх объяснений, перебирая правила в фиксированном порядке приоритета.
type ReasonGenerator struct {
	now   func() time.Time
	rules []reasonRule
}

func NewReasonGenerator(now func() time.Time) *ReasonGenerator {
	if now == nil {
		now = time.Now
	}
	return &ReasonGenerator{
		now: now,
		rules: []reasonRule{
			priceReason,
			locationReason,
			ratingReason,
			popularityReason,
			reviewsReason,
			freshnessReason,
		},
	}
}

// Reasons возвращает первые MaxReasons сработавших правил.
func (g *ReasonGenerator) Reasons(c domain.ScoredCandidate, p domain.UserProfile) []string {
	now := g.now()
	reasons := make([]string, 0, MaxReasons)
	for _, rule := range g.rules {
		if text, ok := rule(c, p, now); ok {
			reasons = append(reasons, text)
			if len(reasons) == MaxReasons {
				break
			}
		}
	}
	return reasons
}

func priceReason(c domain.ScoredCandidate, p domain.UserProfile, _ time.Time) (string, bool) {
	if !p.HasBudget() {
		return "", false
	}
	price := float64(c.Listing.Price)
	if math.Abs(price-p.AverageBudget)/p.AverageBudget <= perfectPriceTolerance {
		return "Perfectly matches your budget", true
	}
	if price < p.AverageBudget {
		return "Good value compared to your usual rent", true
	}
	return "", false
}

func locationReason(c domain.ScoredCandidate, p domain.UserProfile, _ time.Time) (string, bool) {
	if rank, ok := p.LocationRank(c.Listing.Location); ok && rank == 0 {
		return fmt.Sprintf("In %s, your favourite area", c.Listing.Location), true
	}
	return "", false
}

func ratingReason(c domain.ScoredCandidate, _ domain.UserProfile, _ time.Time) (string, bool) {
	if c.Listing.Rating >= highRatingThreshold {
		return fmt.Sprintf("Highly rated (%.1f/5)", c.Listing.Rating), true
	}
	return "", false
}

func popularityReason(c domain.ScoredCandidate, _ domain.UserProfile, _ time.Time) (string, bool) {
	if c.Listing.BookingCount > popularBookingsAbove {
		return "Popular with users", true
	}
	return "", false
}

func reviewsReason(c domain.ScoredCandidate, _ domain.UserProfile, _ time.Time) (string, bool) {
	if c.Listing.ReviewCount >= minReviewsToMention {
		return fmt.Sprintf("%d reviews from tenants", c.Listing.ReviewCount), true
	}
	return "", false
}

func freshnessReason(c domain.ScoredCandidate, _ domain.UserProfile, now time.Time) (string, bool) {
	if c.Listing.AgeInDays(now) < newListingDays {
		return "New listing", true
	}
	return "", false
}
