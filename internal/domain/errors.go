package domain

import "errors"

// ErrDataUnavailable — данные для расчёта рекомендаций не удалось прочитать.
// Публичные операции возвращают пустой результат и ошибку, оборачивающую этот sentinel,
// чтобы вызывающая сторона отличала "пусто, потому что нет данных" от "пусто из-за сбоя".
var ErrDataUnavailable = errors.New("recommendation data unavailable")
