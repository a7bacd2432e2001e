package accountsdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// APIError is the error body every endpoint returns.
type APIError = httpx.APIError

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not an error document still yield one, built from the status line.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Status == 0 {
		apiErr = &APIError{
			Status:           resp.StatusCode,
			Message:          http.StatusText(resp.StatusCode),
			DeveloperMessage: strings.TrimSpace(string(body)),
		}
	}
	return apiErr
}
