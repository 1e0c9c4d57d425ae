package session

import (
	"context"
	"net/http"
	"time"

	"carbook/pkg/model"
)

type contextKey struct{}

var identityKey = contextKey{}

// IdentityFromContext returns the authenticated identity attached by
// Middleware, or a zero (anonymous) identity.
func IdentityFromContext(ctx context.Context) model.Identity {
	if id, ok := ctx.Value(identityKey).(model.Identity); ok {
		return id
	}
	return model.Identity{}
}

func withIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Middleware resolves the session cookie into a request identity. A
// missing, unknown or expired token leaves the request anonymous rather
// than rejecting it; individual handlers decide whether auth is required.
func Middleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Find(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id := model.Identity{
				UserID: sess.UserID,
				Name:   sess.Name,
				Email:  sess.Email,
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

// SetCookie installs the session cookie on a successful login or
// registration. The token is opaque; HttpOnly keeps it away from scripts.
func SetCookie(w http.ResponseWriter, sess *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on logout.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
