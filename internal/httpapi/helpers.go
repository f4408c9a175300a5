// Package httpapi maps the relay's REST surface onto the credit service.
// Every route performs presence validation of its top-level required fields
// before any downstream call, and every failure is reduced to a JSON body of
// the shape {"error": string}.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nutcas3/tokenized-credit/internal/faults"
	"github.com/nutcas3/tokenized-credit/internal/units"
)

func init() {
	// Amounts cross the HTTP boundary as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// jsonError writes the uniform error body.
func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a request body, answering 400 on malformed input.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeFailure maps a propagated failure to its HTTP status. Validation
// failures are user-correctable (400); a missing on-chain role is 403; an
// unresolvable blob reference is 404; an unconfirmed write is 504 so the
// caller can distinguish "retryable" from a hard failure. Everything else
// collapses to 500 with the route's generic message; the cause goes to the
// log, not to the client.
func writeFailure(log *logrus.Entry, w http.ResponseWriter, err error, fallback string) {
	switch {
	case faults.IsValidation(err) || errors.Is(err, units.ErrInvalidAmount):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case faults.IsUnauthorized(err):
		jsonError(w, err.Error(), http.StatusForbidden)
	case faults.IsNotFound(err):
		jsonError(w, err.Error(), http.StatusNotFound)
	case faults.IsChainTimeout(err):
		jsonError(w, err.Error(), http.StatusGatewayTimeout)
	default:
		log.WithError(err).Error(fallback)
		jsonError(w, fallback, http.StatusInternalServerError)
	}
}
