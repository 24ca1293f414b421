// internal/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/larsmn/olsen/internal/auth"
)

const sessionCookieName = "session_token"

// EnsureGuest resolves the caller to a stable guest identity. A valid session
// cookie is honored; anything else mints a fresh player id and sets a new
// signed cookie. Must run before the connection is upgraded, since the cookie
// rides on the HTTP response.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if token := extractCookieToken(r); token != "" {
		if sub, err := auth.AuthenticateJWT(token); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return id, nil
			}
		}
		logrus.Debug("stale session token, minting a new guest identity")
	}

	id := uuid.New()
	token, err := auth.CreateJWT(id.String())
	if err != nil {
		return uuid.Nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

func extractCookieToken(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
