package scoring

import (
	"math"
	"time"

	"housing_recommender/internal/config"
	"housing_recommender/internal/domain"

	"github.com/google/uuid"
)

// CollaborativeIndex — сколько похожих пользователей сохранили объявление.
// Строится один раз на запрос и переиспользуется для всех кандидатов.
type CollaborativeIndex map[uuid.UUID]int

// Engine — гибридный скоринг пары (профиль, кандидат).
// Итог = контент (≤40) + популярность (≤25) + коллаборативная часть (≤20) + свежесть (≤10) + доступность (5).
type Engine struct {
	cfg config.ScoringConfig
	now func() time.Time
}

func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// WithClock подменяет источник времени (для свежести).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Now возвращает текущее время движка.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Score считает итоговый скор кандидата. Уже сохранённые или забронированные
// пользователем объявления получают ровно 0 без расчёта остальных компонент.
func (e *Engine) Score(p domain.UserProfile, c domain.Listing, collab CollaborativeIndex) domain.ScoredCandidate {
	if p.Excludes(c.ID) {
		return domain.ScoredCandidate{Listing: c}
	}

	b := e.Breakdown(p, c, collab)
	return domain.ScoredCandidate{
		Listing:   c,
		Score:     Round2(b.Total()),
		Breakdown: b,
	}
}

// Breakdown считает все компоненты скора без проверки исключений.
func (e *Engine) Breakdown(p domain.UserProfile, c domain.Listing, collab CollaborativeIndex) domain.ScoreBreakdown {
	return domain.ScoreBreakdown{
		Price:         e.priceScore(p, c),
		Location:      e.locationScore(p, c),
		Type:          e.typeScore(p, c),
		Popularity:    e.popularityScore(c),
		Collaborative: e.collaborativeScore(c, collab),
		Freshness:     e.freshnessScore(c),
		Availability:  e.availabilityScore(c),
	}
}

func (e *Engine) priceScore(p domain.UserProfile, c domain.Listing) float64 {
	if !p.HasBudget() {
		return e.cfg.PriceNoBudget
	}
	deviation := math.Abs(float64(c.Price)-p.AverageBudget) / p.AverageBudget
	return math.Max(0, e.cfg.PriceMax-e.cfg.PriceMax*deviation)
}

func (e *Engine) locationScore(p domain.UserProfile, c domain.Listing) float64 {
	rank, ok := p.LocationRank(c.Location)
	if !ok {
		return 0
	}
	return math.Max(e.cfg.LocationFloor, e.cfg.LocationMax-e.cfg.LocationStep*float64(rank))
}

func (e *Engine) typeScore(p domain.UserProfile, c domain.Listing) float64 {
	if p.PrefersType(c.Type) {
		return e.cfg.TypeMatch
	}
	return 0
}

func (e *Engine) popularityScore(c domain.Listing) float64 {
	rating := math.Max(0, math.Min(c.Rating, 5))
	return (rating/5)*e.cfg.RatingMax +
		math.Min(e.cfg.ReviewCap, float64(c.ReviewCount)*e.cfg.ReviewWeight) +
		math.Min(e.cfg.BookingCap, float64(c.BookingCount)*e.cfg.BookingWeight) +
		math.Min(e.cfg.SaveCap, float64(c.SaveCount)*e.cfg.SaveWeight)
}

func (e *Engine) collaborativeScore(c domain.Listing, collab CollaborativeIndex) float64 {
	savers := collab[c.ID]
	if savers <= 0 {
		return 0
	}
	return math.Min(e.cfg.CollaborativeCap, float64(savers)*e.cfg.CollaborativePerUser)
}

func (e *Engine) freshnessScore(c domain.Listing) float64 {
	if e.cfg.FreshnessDecayDays <= 0 {
		return 0
	}
	days := float64(c.AgeInDays(e.now()))
	return math.Max(0, e.cfg.FreshnessMax-days/e.cfg.FreshnessDecayDays)
}

func (e *Engine) availabilityScore(c domain.Listing) float64 {
	if c.IsAvailable() {
		return e.cfg.AvailabilityBonus
	}
	return 0
}

// Round2 округляет до двух знаков (половина — от нуля).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
