package domain

import (
	"math"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	// BudgetLowerFactor и BudgetUpperFactor задают коридор бюджета вокруг средней аренды.
	BudgetLowerFactor = 0.7
	BudgetUpperFactor = 1.3
)

// UserProfile — профиль предпочтений пользователя, собирается на каждый запрос и нигде не хранится.
type UserProfile struct {
	UserID uuid.UUID
	// SavedListings — сохранённые, но не забронированные объявления
	SavedListings []Listing
	// BookedListings — одобренные и завершённые бронирования
	BookedListings []Booking
	// PreferredLocations — районы по убыванию частоты (при равенстве — по алфавиту)
	PreferredLocations []RankedKey
	// PreferredTypes — типы жилья по убыванию частоты
	PreferredTypes []RankedKey
	// AverageBudget — средняя уплаченная аренда, 0 если бронирований нет
	AverageBudget float64
	BudgetRange   BudgetRange

	excluded map[uuid.UUID]struct{}
}

// BudgetRange — допустимый коридор цены.
type BudgetRange struct {
	Min float64
	Max float64
}

// UnboundedBudget — коридор по умолчанию для пользователя без бронирований.
func UnboundedBudget() BudgetRange {
	return BudgetRange{Min: 0, Max: math.Inf(1)}
}

// NewBudgetRange строит коридор вокруг средней аренды.
func NewBudgetRange(average float64) BudgetRange {
	if average <= 0 {
		return UnboundedBudget()
	}
	return BudgetRange{Min: average * BudgetLowerFactor, Max: average * BudgetUpperFactor}
}

// IsUnbounded сообщает, что верхняя граница не задана.
func (r BudgetRange) IsUnbounded() bool {
	return math.IsInf(r.Max, 1)
}

// EmptyProfile — профиль пользователя без какой-либо активности.
func EmptyProfile(userID uuid.UUID) UserProfile {
	return UserProfile{
		UserID:             userID,
		SavedListings:      []Listing{},
		BookedListings:     []Booking{},
		PreferredLocations: []RankedKey{},
		PreferredTypes:     []RankedKey{},
		BudgetRange:        UnboundedBudget(),
		excluded:           map[uuid.UUID]struct{}{},
	}
}

// IndexExclusions строит множество исключаемых объявлений (сохранённые + забронированные).
// Вызывается один раз после сборки профиля, дальше Excludes работает за O(1).
func (p *UserProfile) IndexExclusions() {
	p.excluded = make(map[uuid.UUID]struct{}, len(p.SavedListings)+len(p.BookedListings))
	for _, l := range p.SavedListings {
		p.excluded[l.ID] = struct{}{}
	}
	for _, b := range p.BookedListings {
		p.excluded[b.Listing.ID] = struct{}{}
	}
}

// Excludes сообщает, что объявление уже сохранено или забронировано пользователем.
func (p UserProfile) Excludes(listingID uuid.UUID) bool {
	if p.excluded != nil {
		_, ok := p.excluded[listingID]
		return ok
	}
	return lo.ContainsBy(p.SavedListings, func(l Listing) bool { return l.ID == listingID }) ||
		lo.ContainsBy(p.BookedListings, func(b Booking) bool { return b.Listing.ID == listingID })
}

// LocationRank возвращает позицию района в рейтинге предпочтений (0 — самый частый).
func (p UserProfile) LocationRank(location string) (int, bool) {
	for i, rk := range p.PreferredLocations {
		if LocationsMatch(rk.Key, location) {
			return i, true
		}
	}
	return 0, false
}

// PrefersType проверяет, встречается ли тип жилья в предпочтениях.
func (p UserProfile) PrefersType(t ListingType) bool {
	return lo.ContainsBy(p.PreferredTypes, func(rk RankedKey) bool { return rk.Key == t.String() })
}

// HasBudget — есть ли у пользователя сигнал о бюджете.
func (p UserProfile) HasBudget() bool {
	return p.AverageBudget > 0
}

// SavedListingIDs возвращает идентификаторы сохранённых объявлений.
func (p UserProfile) SavedListingIDs() []uuid.UUID {
	return lo.Map(p.SavedListings, func(l Listing, _ int) uuid.UUID { return l.ID })
}
