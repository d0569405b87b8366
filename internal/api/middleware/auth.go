package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type contextKey string

const actorKey contextKey = "actor"

// Auth переносит идентичность вызывающего из заголовков X-User-ID и X-User-Role в контекст.
// Аутентификация выполняется на шлюзе, здесь только разбор заголовков
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "отсутствует или некорректен заголовок "+HeaderUserID)
			return
		}

		role, ok := domain.ParseActorRole(r.Header.Get(HeaderUserRole))
		if !ok {
			handlers.RespondForbidden(w, "неизвестная роль пользователя")
			return
		}

		ctx := WithActor(r.Context(), domain.Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor кладет actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor достает actor из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
