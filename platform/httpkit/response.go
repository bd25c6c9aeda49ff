// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"
	"time"

	"cep_address_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const (
	titleBadRequest  = "Bad Request"
	titleIntegration = "API Integration Error"
	titleInternal    = "Internal Server Error"

	msgInternal = "internal server error"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	API       string    `json:"api,omitempty"`
	Operation string    `json:"operation,omitempty"`
}

// now is swapped in tests.
var now = time.Now

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// MapError converts an error into its HTTP status and body.
// Invalid arguments map to 400, upstream integration failures to 502 and
// anything else to 500 with a generic message.
func MapError(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Timestamp: now()}

	domainErr, ok := apperr.As(err)
	if !ok {
		resp.Status = http.StatusInternalServerError
		resp.Error = titleInternal
		resp.Message = msgInternal
		return resp.Status, resp
	}

	resp.Status = domainErr.HTTPStatus()
	switch domainErr.Kind {
	case apperr.KindInvalidArgument, apperr.KindBadRequest:
		resp.Error = titleBadRequest
		resp.Message = domainErr.Error()
	case apperr.KindIntegration:
		resp.Error = titleIntegration
		resp.Message = domainErr.Error()
		resp.API = domainErr.API
		resp.Operation = domainErr.Op
	default:
		resp.Error = titleInternal
		resp.Message = msgInternal
	}
	return resp.Status, resp
}

// HandleError maps domain errors to HTTP responses.
// The error is attached to the gin context so RequestLogger can report it.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	status, body := MapError(err)
	_ = c.Error(err)
	c.JSON(status, body)
	return true
}
