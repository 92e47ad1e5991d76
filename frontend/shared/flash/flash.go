// Package flash carries one-shot notices across redirects. Notices live in
// an in-memory cache keyed by a browser token cookie and disappear on first
// render.
package flash

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"partelog/infrastructure/cache"
	sessioncookie "partelog/infrastructure/session"
)

const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Push queues a notice for the requesting browser, minting the flash token
// cookie when it does not exist yet.
func Push(w http.ResponseWriter, r *http.Request, flashes *cache.FlashCache, severity, title, body string) {
	token := ""
	if c, err := r.Cookie(sessioncookie.FlashCookieName); err == nil {
		token = strings.TrimSpace(c.Value)
	}
	if token == "" {
		token = newFlashToken()
		http.SetCookie(w, sessioncookie.FlashCookie(token))
	}
	flashes.Push(token, cache.Notice{Severity: severity, Title: title, Body: body})
}

// Drain pops every queued notice for the requesting browser. Safe to call on
// every page render; returns nil when there is nothing queued.
func Drain(r *http.Request, flashes *cache.FlashCache) []cache.Notice {
	c, err := r.Cookie(sessioncookie.FlashCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return nil
	}
	return flashes.Drain(c.Value)
}

func newFlashToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
