package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hookinbox/hookinbox/internal/httputil"
)

// WebhookTokenHeader is the shared-secret header checked on ingestion.
const WebhookTokenHeader = "X-Webhook-Token"

// basicRealm is sent in the WWW-Authenticate challenge for viewer routes.
const basicRealm = `Basic realm="Webhook Inbox"`

// RequireWebhookToken returns a middleware that rejects ingestion requests
// whose X-Webhook-Token header does not match the configured token.
// When token is empty the receiver is open and the middleware is a pass-through.
// Rejected requests never reach the handler, so nothing is persisted for them.
func RequireWebhookToken(token string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if token == "" {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(WebhookTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid webhook token")
				return
			}
			next(w, r)
		}
	}
}

// RequireBasicAuth returns a middleware protecting viewer routes with HTTP
// Basic auth. When username or password is unconfigured the viewer is open.
// The configured password may be a bcrypt hash ($2a$/$2b$/$2y$ prefix), in
// which case it is verified with bcrypt; otherwise a constant-time plaintext
// comparison is used.
func RequireBasicAuth(username, password string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if username == "" || password == "" {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !credentialsMatch(user, pass, username, password) {
				w.Header().Set("WWW-Authenticate", basicRealm)
				httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next(w, r)
		}
	}
}

func credentialsMatch(user, pass, wantUser, wantPass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1

	var passOK bool
	if isBcryptHash(wantPass) {
		passOK = bcrypt.CompareHashAndPassword([]byte(wantPass), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) == 1
	}

	return userOK && passOK
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
