package recommend

import (
	"context"
	"fmt"
	"sort"

	"housing_recommender/internal/domain"
	"housing_recommender/internal/services/scoring"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DefaultSimilarUsers — сколько похожих пользователей учитывается по умолчанию.
const DefaultSimilarUsers = 5

// CooccurrenceRepository — данные о пересечении сохранений между пользователями.
type CooccurrenceRepository interface {
	UsersWhoSaved(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	SavedListingIDsOf(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

// SimilarUserFinder ищет пользователей с пересекающимися сохранениями.
type SimilarUserFinder struct {
	repo  CooccurrenceRepository
	limit int
}

func NewSimilarUserFinder(repo CooccurrenceRepository, limit int) *SimilarUserFinder {
	if limit <= 0 {
		limit = DefaultSimilarUsers
	}
	return &SimilarUserFinder{repo: repo, limit: limit}
}

// Find возвращает до limit пользователей, сохранивших больше всего тех же объявлений,
// что и userID. Порядок: по убыванию пересечения, при равенстве — по возрастанию ID.
func (f *SimilarUserFinder) Find(ctx context.Context, userID uuid.UUID, savedListingIDs []uuid.UUID) ([]domain.SimilarUser, error) {
	const op = "recommend.SimilarUserFinder.Find"

	saved := lo.Uniq(savedListingIDs)
	if len(saved) == 0 {
		return []domain.SimilarUser{}, nil
	}

	savers, err := f.repo.UsersWhoSaved(ctx, saved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shared := make(map[uuid.UUID]int)
	for _, listingID := range saved {
		for _, other := range lo.Uniq(savers[listingID]) {
			if other == userID {
				continue
			}
			shared[other]++
		}
	}

	similar := make([]domain.SimilarUser, 0, len(shared))
	for id, count := range shared {
		similar = append(similar, domain.SimilarUser{UserID: id, SharedSaves: count})
	}
	sort.Slice(similar, func(i, j int) bool {
		if similar[i].SharedSaves != similar[j].SharedSaves {
			return similar[i].SharedSaves > similar[j].SharedSaves
		}
		return domain.CompareIDs(similar[i].UserID, similar[j].UserID) < 0
	})

	if len(similar) > f.limit {
		similar = similar[:f.limit]
	}
	return similar, nil
}

// CollaborativeIndex одним запросом читает сохранения похожих пользователей
// и считает, сколько из них сохранили каждое объявление.
func (f *SimilarUserFinder) CollaborativeIndex(ctx context.Context, similar []domain.SimilarUser) (scoring.CollaborativeIndex, error) {
	const op = "recommend.SimilarUserFinder.CollaborativeIndex"

	index := make(scoring.CollaborativeIndex)
	if len(similar) == 0 {
		return index, nil
	}

	userIDs := lo.Map(similar, func(u domain.SimilarUser, _ int) uuid.UUID { return u.UserID })
	savedBy, err := f.repo.SavedListingIDsOf(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, u := range userIDs {
		for _, listingID := range lo.Uniq(savedBy[u]) {
			index[listingID]++
		}
	}
	return index, nil
}
