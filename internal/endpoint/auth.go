package endpoint

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// BasicAuth is a http.Handler wrapper that requires one pair of username and password.
//
// Only SHA-256 digests of the credentials are kept, so comparisons take the same time whatever the input length is.
type BasicAuth struct {
	Handler http.Handler
	Realm   string

	user [sha256.Size]byte
	pass [sha256.Size]byte
}

// WithBasicAuth wraps handler with a BasicAuth.
// userinfo is "username:password"; an empty userinfo disables authorization.
func WithBasicAuth(handler http.Handler, userinfo string) http.Handler {
	if userinfo == "" {
		return handler
	}

	username, password, _ := strings.Cut(userinfo, ":")

	return BasicAuth{
		Handler: handler,
		Realm:   "topodown",
		user:    sha256.Sum256([]byte(username)),
		pass:    sha256.Sum256([]byte(password)),
	}
}

func (a BasicAuth) authorized(r *http.Request) bool {
	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}

	u := sha256.Sum256([]byte(username))
	p := sha256.Sum256([]byte(password))

	// Both are always compared.
	return subtle.ConstantTimeCompare(u[:], a.user[:])&subtle.ConstantTimeCompare(p[:], a.pass[:]) == 1
}

func (a BasicAuth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(r) {
		w.Header().Set("WWW-Authenticate", `Basic realm="`+a.Realm+`", charset="UTF-8"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	a.Handler.ServeHTTP(w, r)
}
