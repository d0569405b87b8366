package ratingservice

// EmployeeRating модель рейтинга сотрудника из RatingService
type EmployeeRating struct {
	EmployeeID   int64   `json:"employee_id"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
}

// ErrorResponse модель ошибки от RatingService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
