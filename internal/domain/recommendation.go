package domain

import (
	"github.com/google/uuid"
)

// ScoreBreakdown — вклад каждого фактора в итоговый скор.
type ScoreBreakdown struct {
	Price         float64
	Location      float64
	Type          float64
	Popularity    float64
	Collaborative float64
	Freshness     float64
	Availability  float64
}

// Content — контентная часть скора (цена + район + тип).
func (b ScoreBreakdown) Content() float64 {
	return b.Price + b.Location + b.Type
}

// Total — сумма всех компонент без округления.
func (b ScoreBreakdown) Total() float64 {
	return b.Content() + b.Popularity + b.Collaborative + b.Freshness + b.Availability
}

// ScoredCandidate — объявление-кандидат с итоговым скором и объяснениями.
type ScoredCandidate struct {
	Listing   Listing
	Score     float64
	Breakdown ScoreBreakdown
	// Reasons — не более трёх объяснений, заполняются только для итогового топ-N
	Reasons []string
}

// SimilarUser — пользователь с пересекающимся набором сохранённых объявлений.
type SimilarUser struct {
	UserID      uuid.UUID
	SharedSaves int
}

// TrendingListing — объявление с трендовым скором за последнее окно.
type TrendingListing struct {
	Listing    Listing
	TrendScore int
	Activity   RecentActivity
}

// SimilarListing — объявление, похожее на исходное.
type SimilarListing struct {
	Listing    Listing
	Similarity int
}
