package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

type ctxKey int

const (
	ownerKey ctxKey = iota
	requestIDKey
)

const sessionCookie = "session_id"

// SessionStore mints and refreshes anonymous shopper sessions.
type SessionStore interface {
	GetOrCreate(ctx context.Context, token string) (string, error)
}

// OwnerMiddleware resolves the request to a cart owner: an authenticated
// user id when the auth layer set one, otherwise an anonymous session
// tracked by cookie. Every request ends up with exactly one of the two.
func OwnerMiddleware(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// In production the user id comes from validated JWT claims.
			// The header stands in for the auth proxy in front of us.
			if userID := r.Header.Get("X-User-ID"); userID != "" {
				ctx := context.WithValue(r.Context(), ownerKey, domain.UserOwner(userID))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			var token string
			if cookie, err := r.Cookie(sessionCookie); err == nil {
				token = cookie.Value
			}

			sessionID, err := sessions.GetOrCreate(r.Context(), token)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "session_error", "failed to resolve session")
				return
			}

			if sessionID != token {
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ownerKey, domain.SessionOwner(sessionID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFromContext(ctx context.Context) (domain.OwnerRef, bool) {
	owner, ok := ctx.Value(ownerKey).(domain.OwnerRef)
	return owner, ok
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
