package recommend

import (
	"sort"

	"housing_recommender/internal/domain"
	"housing_recommender/internal/services/scoring"
)

// Ranker отбирает топ-N кандидатов для пользователя.
type Ranker struct {
	engine  *scoring.Engine
	reasons *scoring.ReasonGenerator
}

func NewRanker(engine *scoring.Engine, reasons *scoring.ReasonGenerator) *Ranker {
	return &Ranker{engine: engine, reasons: reasons}
}

// Rank исключает уже сохранённые/забронированные объявления до скоринга, отбрасывает
// кандидатов с нулевым скором, сортирует по убыванию скора (при равенстве — по ID)
// и обрезает до n. Объяснения строятся только для итоговых n.
func (r *Ranker) Rank(p domain.UserProfile, candidates []domain.Listing, collab scoring.CollaborativeIndex, n int) []domain.ScoredCandidate {
	if n <= 0 {
		return []domain.ScoredCandidate{}
	}

	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if p.Excludes(c.ID) {
			continue
		}
		sc := r.engine.Score(p, c, collab)
		if sc.Score <= 0 {
			continue
		}
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return domain.CompareIDs(scored[i].Listing.ID, scored[j].Listing.ID) < 0
	})

	if len(scored) > n {
		scored = scored[:n]
	}

	for i := range scored {
		scored[i].Reasons = r.reasons.Reasons(scored[i], p)
	}
	return scored
}
