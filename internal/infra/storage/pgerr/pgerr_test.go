package pgerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, domain.ErrConflict},
		{"deadlock", &pq.Error{Code: "40P01"}, domain.ErrConflict},
		{"exclusion constraint", &pq.Error{Code: "23P01"}, domain.ErrConflict},
		{"unique violation", &pq.Error{Code: "23505"}, ErrUniqueViolation},
		{"query canceled", &pq.Error{Code: "57014"}, domain.ErrTransientStore},
		{"connection failure class", &pq.Error{Code: "08006"}, domain.ErrTransientStore},
		{"syntax error", &pq.Error{Code: "42601"}, domain.ErrStore},
		{"bad conn", driver.ErrBadConn, domain.ErrTransientStore},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.ErrTransientStore},
		{"unknown", errors.New("boom"), domain.ErrStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Classify(tt.err), tt.want)
		})
	}

	assert.NoError(t, Classify(nil))
}

func TestMap(t *testing.T) {
	assert.NoError(t, Map(nil))

	mapped := Map(&pq.Error{Code: "40001", Message: "could not serialize access"})
	assert.ErrorIs(t, mapped, domain.ErrConflict)
	assert.Contains(t, mapped.Error(), "could not serialize access")

	already := fmt.Errorf("%w: commit", domain.ErrTransientStore)
	assert.Same(t, already, Map(already))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", ErrUniqueViolation)))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23P01"}))
}
