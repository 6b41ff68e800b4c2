package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	// RoleCustomer роль по умолчанию
	RoleCustomer = "customer"
	// RoleStaff сотрудник: эксперт или администратор
	RoleStaff = "staff"

	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidRole   = "некорректная роль пользователя"
	msgStaffOnly     = "доступно только сотрудникам"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// Auth извлекает личность пользователя из заголовков X-User-ID и X-User-Role.
// Аутентификацию выполняет шлюз перед сервисом
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(headerUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := r.Header.Get(headerUserRole)
		switch role {
		case "":
			role = RoleCustomer
		case RoleCustomer, RoleStaff:
		default:
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff пропускает только сотрудников. Ставится после Auth
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsStaff(r.Context()) {
			handlers.RespondForbidden(w, msgStaffOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsStaff возвращает true, если пользователь сотрудник
func IsStaff(ctx context.Context) bool {
	role, _ := ctx.Value(userRoleKey).(string)
	return role == RoleStaff
}

// WithUser кладет пользователя в контекст, как это делает Auth
func WithUser(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, role)
}
