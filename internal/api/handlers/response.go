package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

const (
	msgInternalError    = "внутренняя ошибка сервера"
	msgUnavailable      = "сервис временно недоступен, повторите запрос"
	msgValidationFailed = "запрос нарушает правила бронирования"
	msgConflict         = "выбранное время уже занято"
	msgNotFound         = "объект не найден"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	// Rule имя нарушенного правила бронирования (lead_time, slot_unavailable, ...)
	Rule string `json:"rule,omitempty"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// StatusFor сопоставляет ошибку доменной таксономии с HTTP статусом:
// валидация 400, конфликт 409, не найдено 404, временный сбой хранилища 503, остальное 500
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError отправляет ошибку сервиса с нужным статусом и возвращает этот статус.
// Для ошибок валидации и конфликтов в ответ попадает имя нарушенного правила
func RespondServiceError(w http.ResponseWriter, err error) int {
	status := StatusFor(err)

	resp := ErrorResponse{Rule: domain.RuleOf(err)}
	switch status {
	case http.StatusBadRequest:
		resp.Error = msgValidationFailed
	case http.StatusConflict:
		resp.Error = msgConflict
	case http.StatusNotFound:
		resp.Error = msgNotFound
	case http.StatusServiceUnavailable:
		resp.Error = msgUnavailable
	default:
		RespondInternalError(w)
		return status
	}
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		resp.Error = resp.Error + ": " + err.Error()
	}

	RespondJSON(w, status, resp)
	return status
}

// DecodeJSON декодирует JSON из request body
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// PathID извлекает положительный int64 параметр пути
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе расписаний
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, raw, loc)
}
