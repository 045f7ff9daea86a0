package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// HeaderUserID заголовок с ID пользователя, проставляется API-шлюзом
const HeaderUserID = "X-User-ID"

// Auth извлекает ID пользователя из заголовка и кладет его в контекст запроса.
// Сервис внутренний: аутентификацию выполняет шлюз, здесь только пробрасываем identity
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(HeaderUserID)
		if header != "" {
			if userID, err := strconv.ParseInt(header, 10, 64); err == nil && userID > 0 {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
