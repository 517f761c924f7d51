package domain

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

const (
	// DefaultLimit кол-во рекомендаций по умолчанию
	DefaultLimit = 10
	// MaxLimit максимальное кол-во рекомендаций в одном ответе
	MaxLimit = 50
)

// NormalizeLimit приводит запрошенный размер выдачи к допустимому диапазону.
func NormalizeLimit(limit, defaultLimit, maxLimit int) int {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return min(limit, maxLimit)
}

// RankedKey — ключ с частотой появления.
type RankedKey struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// RankByFrequency сортирует ключи по убыванию частоты, при равенстве — по возрастанию ключа.
func RankByFrequency(counts map[string]int) []RankedKey {
	ranked := make([]RankedKey, 0, len(counts))
	for k, c := range counts {
		ranked = append(ranked, RankedKey{Key: k, Count: c})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})
	return ranked
}

// CompareIDs сравнивает UUID побайтово (совпадает с лексикографическим порядком строкового вида).
func CompareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
