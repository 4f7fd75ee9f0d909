package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
)

const userIDHeader = "X-User-ID"

type ctxKey struct{}

// Auth требует заголовок X-User-ID и кладёт его значение в контекст запроса
// Аутентификацию выполняет внешний шлюз, здесь только идентификация
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "отсутствует заголовок X-User-ID")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(ctxKey{}).(string)
	return userID
}
