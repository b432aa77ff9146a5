package billplz

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingAPIKey       = errors.New("billplz API secret key is not configured")
	ErrMissingCollectionID = errors.New("billplz collection id is not configured")
)

// GatewayError is a non-2xx answer from the Billplz API.
type GatewayError struct {
	StatusCode int
	Type       string
	Messages   []string
}

func (e *GatewayError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Type != "" {
		return fmt.Sprintf("billplz %d %s: %s", e.StatusCode, e.Type, msg)
	}
	return fmt.Sprintf("billplz %d: %s", e.StatusCode, msg)
}

// IsCredentialError reports whether err means the gateway rejected our
// credentials or collection.
func IsCredentialError(err error) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		if gwErr.StatusCode == http.StatusUnauthorized || gwErr.StatusCode == http.StatusForbidden {
			return true
		}
		if strings.EqualFold(gwErr.Type, "Unauthorized") {
			return true
		}
	}
	lower := strings.ToLower(err.Error())
	for _, hint := range []string{"unauthorized", "access denied", "api key", "secret key", "credential"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
