package ratingservice

import "errors"

var (
	// ErrRatingNotFound возвращается, когда у сотрудника еще нет рейтинга
	ErrRatingNotFound = errors.New("employee has no rating")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("ratingservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("ratingservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что RatingService недоступен и следует использовать сохраненный рейтинг
	ErrServiceDegraded = errors.New("ratingservice unavailable: graceful degradation applied")
)
