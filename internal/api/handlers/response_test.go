package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", domain.NewRuleError(domain.ErrConflict, domain.RuleSlotUnavailable), http.StatusConflict},
		{"validation", fmt.Errorf("wrap: %w", domain.NewRuleError(domain.ErrValidation, domain.RuleLeadTime)), http.StatusBadRequest},
		{"not found", domain.ErrBookingNotFound, http.StatusNotFound},
		{"transient", fmt.Errorf("%w: serialization failure", domain.ErrTransientStore), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	t.Run("rule is reported", func(t *testing.T) {
		w := httptest.NewRecorder()
		status := RespondServiceError(w, fmt.Errorf("%w: too late", domain.NewRuleError(domain.ErrValidation, domain.RuleCancellationWindow)))

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.RuleCancellationWindow, resp.Rule)
		assert.Contains(t, resp.Error, "too late")
	})

	t.Run("internal details are hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		status := RespondServiceError(w, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var v struct {
		Reason string `json:"reason"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"ok"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "ok", v.Reason)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"ok","extra":1}`))
	assert.Error(t, DecodeJSON(r, &v))
}
