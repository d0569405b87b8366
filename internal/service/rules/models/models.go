package models

import (
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// Request модели

// UpsertRulesRequest запрос на создание или обновление правил бронирования точки
// Все поля значений опциональны - обновляются только переданные значения
type UpsertRulesRequest struct {
	Actor                domain.Actor `json:"-"`
	LocationID           int64        `json:"-"`
	ServiceID            *int64       `json:"serviceId,omitempty"` // NULL = для всех услуг точки
	MinBookingLeadHours  *int         `json:"minBookingLeadHours,omitempty"`
	MaxBookingDays       *int         `json:"maxBookingDays,omitempty"` // 0 = без ограничений
	MinCancellationHours *int         `json:"minCancellationHours,omitempty"`
	RequireConfirmation  *bool        `json:"requireConfirmation,omitempty"`
}

// Response модели

// RulesResponse ответ с правилами бронирования
type RulesResponse struct {
	ID                   int64     `json:"id,omitempty"`
	LocationID           *int64    `json:"locationId,omitempty"`
	ServiceID            *int64    `json:"serviceId,omitempty"`
	Level                string    `json:"level"`
	MinBookingLeadHours  int       `json:"minBookingLeadHours"`
	MaxBookingDays       int       `json:"maxBookingDays"`
	MinCancellationHours int       `json:"minCancellationHours"`
	RequireConfirmation  bool      `json:"requireConfirmation"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
	UpdatedAt            time.Time `json:"updatedAt,omitempty"`
}

// LocationRulesResponse правила точки: действующие для запроса и все заданные уровни
type LocationRulesResponse struct {
	Effective RulesResponse   `json:"effective"`
	Rules     []RulesResponse `json:"rules"`
}

// Методы конвертации

// FromDomainRules конвертирует domain модель в DTO
func FromDomainRules(r *domain.BookingRules) *RulesResponse {
	if r == nil {
		return nil
	}

	return &RulesResponse{
		ID:                   r.ID,
		LocationID:           r.LocationID,
		ServiceID:            r.ServiceID,
		Level:                Level(r),
		MinBookingLeadHours:  r.MinBookingLeadHours,
		MaxBookingDays:       r.MaxBookingDays,
		MinCancellationHours: r.MinCancellationHours,
		RequireConfirmation:  r.RequireConfirmation,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// FromDomainRulesList конвертирует список domain моделей в DTO
func FromDomainRulesList(list []*domain.BookingRules) []RulesResponse {
	resp := make([]RulesResponse, 0, len(list))
	for _, r := range list {
		if item := FromDomainRules(r); item != nil {
			resp = append(resp, *item)
		}
	}
	return resp
}

// Level возвращает строковое представление уровня правил
func Level(r *domain.BookingRules) string {
	switch {
	case r.ID == 0:
		return "default"
	case r.IsServiceAtLocation():
		return "service@location"
	case r.IsLocationSpecific():
		return "location"
	case r.IsServiceSpecific():
		return "service"
	default:
		return "global"
	}
}

// ApplyTo применяет обновления к правилам
// Обновляются только непустые (not nil) поля из request
func (r *UpsertRulesRequest) ApplyTo(rules *domain.BookingRules) {
	if r.MinBookingLeadHours != nil {
		rules.MinBookingLeadHours = *r.MinBookingLeadHours
	}
	if r.MaxBookingDays != nil {
		rules.MaxBookingDays = *r.MaxBookingDays
	}
	if r.MinCancellationHours != nil {
		rules.MinCancellationHours = *r.MinCancellationHours
	}
	if r.RequireConfirmation != nil {
		rules.RequireConfirmation = *r.RequireConfirmation
	}
}
