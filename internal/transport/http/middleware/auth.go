package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hrmperf/internal/domain/auth"
	"hrmperf/internal/requestctx"
	"hrmperf/internal/transport/http/api"
)

// Auth attaches the principal carried by a bearer token. Requests without a
// token pass through anonymous; RequireAuth and RequirePermission reject them.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				slog.Debug("bearer token rejected", "err", err, "requestId", GetRequestID(r.Context()))
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithPrincipal(r.Context(), auth.PrincipalFromClaims(*claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipal(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	return requestctx.GetPrincipal(ctx)
}
