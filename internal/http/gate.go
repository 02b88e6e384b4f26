package httpx

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"
)

// GateCredentials holds the shared login/password pair that protects the API.
type GateCredentials struct {
	Login    string
	Password string
}

// Enabled reports whether the gate should be enforced.
func (c GateCredentials) Enabled() bool {
	return c.Login != "" && c.Password != ""
}

// Gate returns a middleware that enforces HTTP basic auth against the
// configured credentials. Comparison is constant-time on hashed values so
// mismatched lengths leak nothing. With the gate disabled the middleware is
// a pass-through; config validation refuses that outside dev.
func Gate(creds GateCredentials) func(http.Handler) http.Handler {
	if !creds.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	wantLogin := sha256.Sum256([]byte(creds.Login))
	wantPassword := sha256.Sum256([]byte(creds.Password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login, password, ok := r.BasicAuth()
			if ok {
				gotLogin := sha256.Sum256([]byte(login))
				gotPassword := sha256.Sum256([]byte(password))
				loginMatch := subtle.ConstantTimeCompare(wantLogin[:], gotLogin[:]) == 1
				passwordMatch := subtle.ConstantTimeCompare(wantPassword[:], gotPassword[:]) == 1
				if loginMatch && passwordMatch {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("WWW-Authenticate", `Basic realm="processdocs", charset="UTF-8"`)
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New("authentication required"),
			})
		})
	}
}
