package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// APIError is the error body returned by every endpoint.
type APIError struct {
	Status           int    `json:"status"`
	Message          string `json:"message"`
	DeveloperMessage string `json:"developerMessage,omitempty"`
}

func (e APIError) Error() string {
	if e.DeveloperMessage == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, e.DeveloperMessage)
}

// WriteJSON writes v as JSON with the given status code. Responses are never
// cached since most of them carry tokens or account state.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes e using its Status as the response code.
func WriteError(w http.ResponseWriter, e APIError) {
	WriteJSON(w, e.Status, e)
}

// WriteOK writes an empty 200.
func WriteOK(w http.ResponseWriter) {
	NoCache(w)
	w.WriteHeader(http.StatusOK)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrBadBody is returned by DecodeJSON for unreadable bodies.
var ErrBadBody = errors.New("httpx: malformed request body")

// DecodeJSON reads a single JSON object from r's body into dst. Unknown
// fields are ignored, trailing data is not.
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return fmt.Errorf("%w: unsupported content type %q", ErrBadBody, ct)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrBadBody)
	}
	return nil
}
