package ratingservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с RatingService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента RatingService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetRating получает рейтинг сотрудника
func (c *Client) GetRating(ctx context.Context, employeeID int64) (*EmployeeRating, error) {
	url := fmt.Sprintf("%s/internal/employees/%d/rating", c.baseURL, employeeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid employee ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrRatingNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var rating EmployeeRating
	if err := json.NewDecoder(resp.Body).Decode(&rating); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &rating, nil
}

// GetRatingWithGracefulDegradation получает рейтинг сотрудника с graceful degradation
// При недоступности RatingService возвращает ErrServiceDegraded, и вызывающий использует сохраненный рейтинг
func (c *Client) GetRatingWithGracefulDegradation(ctx context.Context, employeeID int64) (float64, error) {
	rating, err := c.GetRating(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrRatingNotFound) {
			c.log.Info("No rating found for employee_id=%d", employeeID)
			return 0, err
		}

		c.log.Error("RatingService unavailable, applying graceful degradation for employee_id=%d: %v", employeeID, err)
		return 0, fmt.Errorf("%w: employee_id=%d, error=%v", ErrServiceDegraded, employeeID, err)
	}

	return rating.Rating, nil
}
