package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"rihla/shared/constant"
	"rihla/shared/failure"
	"rihla/transport/http/response"
)

// RequireAPIKey guards admin-only routes. The key comes from the
// X-API-Key header and is compared in constant time against the
// configured value.
func (a *appMiddleware) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configured := a.config.App.APIKey
		provided := r.Header.Get(constant.RequestHeaderAPIKey)

		if configured == "" || subtle.ConstantTimeCompare([]byte(configured), []byte(provided)) != 1 {
			response.WithError(w, failure.ForbiddenError)

			return
		}

		ctx := context.WithValue(r.Context(), constant.ContextKeyAdmin, true)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
