package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/clinicdesk/internal/http/response"
	"github.com/diagnosis/clinicdesk/pkg/auth"
	"github.com/diagnosis/clinicdesk/pkg/logger"
)

// TokenVerifier checks a raw session token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireSession rejects requests without a valid Bearer session token.
// Every token rejection gets the same 401 body; a storage failure while checking
// the account is a 500.
func RequireSession(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			claims, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				logger.DebugContext(r.Context(), "Session rejected", "error", err)
				response.FromError(w, r, err)
				return
			}
			ctx := auth.WithClaims(r.Context(), claims)
			ctx = context.WithValue(ctx, logger.AccountIDKey, claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
