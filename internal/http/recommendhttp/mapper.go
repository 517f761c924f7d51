package recommendhttp

import (
	"time"

	"housing_recommender/internal/domain"
	"housing_recommender/internal/lib/metrics"
)

type listingDTO struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Price        int64   `json:"price"`
	Location     string  `json:"location"`
	Type         string  `json:"type"`
	Bedrooms     int32   `json:"bedrooms"`
	Bathrooms    int32   `json:"bathrooms"`
	Availability string  `json:"availability"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	BookingCount int     `json:"booking_count"`
	SaveCount    int     `json:"save_count"`
	CreatedAt    string  `json:"created_at"`
}

// breakdownDTO — вклад факторов; content = price + location + type.
type breakdownDTO struct {
	Content       float64 `json:"content"`
	Price         float64 `json:"price"`
	Location      float64 `json:"location"`
	Type          float64 `json:"type"`
	Popularity    float64 `json:"popularity"`
	Collaborative float64 `json:"collaborative"`
	Freshness     float64 `json:"freshness"`
	Availability  float64 `json:"availability"`
}

type scoredCandidateDTO struct {
	Listing   listingDTO   `json:"listing"`
	Score     float64      `json:"score"`
	Breakdown breakdownDTO `json:"breakdown"`
	Reasons   []string     `json:"reasons"`
}

type recommendationsResponse struct {
	UserID   string               `json:"user_id"`
	Items    []scoredCandidateDTO `json:"items"`
	Count    int                  `json:"count"`
	Degraded bool                 `json:"degraded"`
}

type trendingDTO struct {
	Listing        listingDTO `json:"listing"`
	TrendScore     int        `json:"trend_score"`
	RecentBookings int        `json:"recent_bookings"`
	RecentSaves    int        `json:"recent_saves"`
	RecentReviews  int        `json:"recent_reviews"`
}

type trendingResponse struct {
	Items    []trendingDTO `json:"items"`
	Count    int           `json:"count"`
	Degraded bool          `json:"degraded"`
}

type similarDTO struct {
	Listing    listingDTO `json:"listing"`
	Similarity int        `json:"similarity"`
}

type similarResponse struct {
	ListingID string       `json:"listing_id"`
	Items     []similarDTO `json:"items"`
	Count     int          `json:"count"`
	Degraded  bool         `json:"degraded"`
}

// budgetRangeDTO — Max отсутствует, если бюджет не ограничен сверху.
type budgetRangeDTO struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max"`
}

type profileDTO struct {
	UserID             string             `json:"user_id"`
	SavedListingIDs    []string           `json:"saved_listing_ids"`
	BookedListingIDs   []string           `json:"booked_listing_ids"`
	PreferredLocations []domain.RankedKey `json:"preferred_locations"`
	PreferredTypes     []domain.RankedKey `json:"preferred_types"`
	AverageBudget      float64            `json:"average_budget"`
	BudgetRange        budgetRangeDTO     `json:"budget_range"`
}

type profileResponse struct {
	Profile  profileDTO `json:"profile"`
	Degraded bool       `json:"degraded"`
}

type statsResponse struct {
	Operations metrics.Stats     `json:"operations"`
	Breakers   map[string]string `json:"breakers"`
}

func listingToDTO(l domain.Listing) listingDTO {
	dto := listingDTO{
		ID:           l.ID.String(),
		Title:        l.Title,
		Price:        l.Price,
		Location:     l.Location,
		Type:         l.Type.String(),
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Availability: l.Availability.String(),
		Rating:       l.Rating,
		ReviewCount:  l.ReviewCount,
		BookingCount: l.BookingCount,
		SaveCount:    l.SaveCount,
	}
	if !l.CreatedAt.IsZero() {
		dto.CreatedAt = l.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func breakdownToDTO(b domain.ScoreBreakdown) breakdownDTO {
	return breakdownDTO{
		Content:       b.Content(),
		Price:         b.Price,
		Location:      b.Location,
		Type:          b.Type,
		Popularity:    b.Popularity,
		Collaborative: b.Collaborative,
		Freshness:     b.Freshness,
		Availability:  b.Availability,
	}
}

func scoredCandidatesToDTO(items []domain.ScoredCandidate) []scoredCandidateDTO {
	out := make([]scoredCandidateDTO, 0, len(items))
	for _, c := range items {
		reasons := c.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		out = append(out, scoredCandidateDTO{
			Listing:   listingToDTO(c.Listing),
			Score:     c.Score,
			Breakdown: breakdownToDTO(c.Breakdown),
			Reasons:   reasons,
		})
	}
	return out
}

func trendingToDTO(items []domain.TrendingListing) []trendingDTO {
	out := make([]trendingDTO, 0, len(items))
	for _, t := range items {
		out = append(out, trendingDTO{
			Listing:        listingToDTO(t.Listing),
			TrendScore:     t.TrendScore,
			RecentBookings: t.Activity.Bookings,
			RecentSaves:    t.Activity.Saves,
			RecentReviews:  t.Activity.ApprovedReviews,
		})
	}
	return out
}

func similarToDTO(items []domain.SimilarListing) []similarDTO {
	out := make([]similarDTO, 0, len(items))
	for _, s := range items {
		out = append(out, similarDTO{
			Listing:    listingToDTO(s.Listing),
			Similarity: s.Similarity,
		})
	}
	return out
}

func budgetRangeToDTO(r domain.BudgetRange) budgetRangeDTO {
	dto := budgetRangeDTO{Min: r.Min}
	if !r.IsUnbounded() {
		maxBudget := r.Max
		dto.Max = &maxBudget
	}
	return dto
}

func profileToDTO(p domain.UserProfile) profileDTO {
	saved := make([]string, 0, len(p.SavedListings))
	for _, l := range p.SavedListings {
		saved = append(saved, l.ID.String())
	}
	booked := make([]string, 0, len(p.BookedListings))
	for _, b := range p.BookedListings {
		booked = append(booked, b.Listing.ID.String())
	}

	locations := p.PreferredLocations
	if locations == nil {
		locations = []domain.RankedKey{}
	}
	types := p.PreferredTypes
	if types == nil {
		types = []domain.RankedKey{}
	}

	return profileDTO{
		UserID:             p.UserID.String(),
		SavedListingIDs:    saved,
		BookedListingIDs:   booked,
		PreferredLocations: locations,
		PreferredTypes:     types,
		AverageBudget:      p.AverageBudget,
		BudgetRange:        budgetRangeToDTO(p.BudgetRange),
	}
}
