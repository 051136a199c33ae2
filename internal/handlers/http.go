package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/abrezinsky/auctiondesk/internal/auction"
	"github.com/abrezinsky/auctiondesk/internal/errors"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeImport            = "IMPORT_ERROR"
	ErrCodePrecondition      = "PRECONDITION_FAILED"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeRosterFull        = "ROSTER_FULL"
	ErrCodeNoActiveLot       = "NO_ACTIVE_LOT"
	ErrCodeBidFinalized      = "BID_FINALIZED"
	ErrCodeBidNotFinalized   = "BID_NOT_FINALIZED"
	ErrCodeInternalServer    = "INTERNAL_SERVER_ERROR"
)

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// preconditionCodes gives each rejected auction move its own code so the
// controller page can explain it
var preconditionCodes = []struct {
	err  error
	code string
}{
	{auction.ErrInsufficientFunds, ErrCodeInsufficientFunds},
	{auction.ErrRosterFull, ErrCodeRosterFull},
	{auction.ErrNoActiveLot, ErrCodeNoActiveLot},
	{auction.ErrBidFinalized, ErrCodeBidFinalized},
	{auction.ErrBidNotFinalized, ErrCodeBidNotFinalized},
}

// BadRequest creates a 400 error with custom message
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// Validation creates a 400 error for a field that failed validation
func Validation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// Conflict creates a 409 error with custom message
func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: message}
}

// InternalError creates a 500 error. The cause is not exposed to the client.
func InternalError() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*APIError); ok {
		respondJSON(w, apiErr.Status, apiErr)
		return
	}
	apiErr := ToAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted
func decodeOptionalJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && err != io.EOF {
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// ToAPIError converts service errors to appropriate API errors
func ToAPIError(err error) *APIError {
	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		return InternalError()
	}

	switch appErr.Kind {
	case errors.ErrNotFound:
		return NotFound(err.Error())
	case errors.ErrValidation, errors.ErrInvalidInput:
		return Validation(err.Error())
	case errors.ErrConflict:
		return Conflict(err.Error())
	case errors.ErrImport:
		return &APIError{Status: http.StatusBadGateway, Code: ErrCodeImport, Message: err.Error()}
	case errors.ErrPrecondition:
		for _, pc := range preconditionCodes {
			if stderrors.Is(err, pc.err) {
				return &APIError{Status: http.StatusConflict, Code: pc.code, Message: err.Error()}
			}
		}
		return &APIError{Status: http.StatusConflict, Code: ErrCodePrecondition, Message: err.Error()}
	default:
		return InternalError()
	}
}
