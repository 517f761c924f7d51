package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing — объявление об аренде жилья вместе с агрегированной статистикой.
// Для рекомендательного движка объявление неизменяемо: им владеет подсистема управления объявлениями.
type Listing struct {
	ID    uuid.UUID
	Title string
	// Price — месячная арендная плата
	Price        int64
	Location     string
	Type         ListingType
	Bedrooms     int32
	Bathrooms    int32
	Availability Availability
	Status       ListingStatus
	CreatedAt    time.Time

	// Агрегаты (считаются репозиторием)
	Rating       float64 // Средний рейтинг по одобренным отзывам (0-5)
	ReviewCount  int
	BookingCount int
	SaveCount    int
}

// IsAvailable сообщает, можно ли сейчас арендовать объект.
func (l Listing) IsAvailable() bool {
	return l.Availability == AvailabilityAvailable
}

// AgeInDays возвращает количество полных суток с момента публикации.
// Для объявлений "из будущего" (рассинхрон часов) возвращает 0.
func (l Listing) AgeInDays(now time.Time) int {
	if l.CreatedAt.IsZero() || now.Before(l.CreatedAt) {
		return 0
	}
	return int(now.Sub(l.CreatedAt) / (24 * time.Hour))
}

// ListingType — тип жилья.
type ListingType string

const (
	ListingTypeUnspecified ListingType = ""
	ListingTypeBedsitter   ListingType = "bedsitter"
	ListingTypeStudio      ListingType = "studio"
	ListingTypeApartment   ListingType = "apartment"
	ListingTypeHouse       ListingType = "house"
	ListingTypeMaisonette  ListingType = "maisonette"
	ListingTypeHostel      ListingType = "hostel" // Студенческие общежития
)

func (t ListingType) String() string {
	return string(t)
}

// ListingStatus — статус модерации объявления.
type ListingStatus string

const (
	ListingStatusUnspecified ListingStatus = ""
	ListingStatusPending     ListingStatus = "pending"  // Ожидает модерации
	ListingStatusActive      ListingStatus = "active"   // Опубликовано
	ListingStatusInactive    ListingStatus = "inactive" // Снято владельцем
	ListingStatusRejected    ListingStatus = "rejected" // Отклонено модератором
)

func (s ListingStatus) String() string {
	return string(s)
}

// Availability — флаг доступности объекта для аренды.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityOccupied  Availability = "occupied"
)

func (a Availability) String() string {
	return string(a)
}

// BookingStatus — статус бронирования.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) String() string {
	return string(s)
}

// CountsTowardsProfile — только одобренные и завершённые бронирования формируют профиль.
func (s BookingStatus) CountsTowardsProfile() bool {
	return s == BookingStatusApproved || s == BookingStatusCompleted
}

// Booking — бронирование пользователя вместе с объявлением и фактически уплаченной арендой.
type Booking struct {
	Listing  Listing
	RentPaid int64
	Status   BookingStatus
}

// RecentActivity — активность по объявлению за окно трендов.
type RecentActivity struct {
	Bookings        int
	Saves           int
	ApprovedReviews int
}

// ListingFilter — фильтр для выборок объявлений.
type ListingFilter struct {
	Status *ListingStatus
	IDs    []uuid.UUID
}
