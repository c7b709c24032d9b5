package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/csukav/Webshop/internal/auth"
	"github.com/csukav/Webshop/internal/auth/repository"
	"github.com/csukav/Webshop/internal/domain"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "request_id"
)

const sessionCookie = "session"

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

// SessionMiddleware resolves the session cookie to an identity and stores it
// on the context. A missing or expired session leaves the request anonymous.
func SessionMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err == nil && cookie.Value != "" {
				identity, errResolve := authService.Resolve(r.Context(), cookie.Value)
				if errResolve != nil {
					log.Printf("session resolve error: %v", errResolve)
				} else if identity != nil {
					ctx := context.WithValue(r.Context(), identityKey, identity)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EdgeGateMiddleware is the first enforcement point of the access gate. It
// only knows whether the request carries a resolved identity; the role is
// passed as unknown and re-checked by the admin layer with a privileged read.
func EdgeGateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := identityFromContext(r.Context())
		decision := auth.Decide(r.URL.Path, identity != nil, domain.RoleUnknown)
		if !decision.Allowed() {
			http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminGateMiddleware is the second enforcement point. It re-reads the role
// through the privileged profile repository instead of trusting any claim
// carried by the session.
func AdminGateMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromContext(r.Context())
			if identity == nil {
				http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
				return
			}

			profile, err := authService.CurrentProfile(r.Context(), identity)
			role := domain.RoleUser
			if err == nil {
				role = profile.Role
			} else if !errors.Is(err, repository.ErrProfileNotFound) {
				respondError(w, http.StatusInternalServerError, "profile_lookup_failed", "could not verify permissions")
				return
			}

			decision := auth.Decide(r.URL.Path, true, role)
			if !decision.Allowed() {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func identityFromContext(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return identity
	}
	return nil
}

func requestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
