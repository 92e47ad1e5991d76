package session

import (
	"net/http"
	"time"
)

const (
	CookieName      = "X-Session-Token"
	FlashCookieName = "X-Flash-Token"
)

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

// FlashCookie identifies the browser's one-shot notice queue. It exists
// before login so register/login notices survive the redirect.
func FlashCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     FlashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

// Lifetime bounds a session; the CSRF cookie rotates on the same cadence.
const Lifetime = 12 * time.Hour

func DefaultExpiry() time.Time {
	return time.Now().Add(Lifetime)
}
