package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matiasleandrokruk/summarygate/internal/domain/summarize"
)

// StatusClientClosedRequest is the non-standard status recorded when the
// caller disconnected before a summary was ready. Nobody reads the body.
const StatusClientClosedRequest = 499

// errorResponse maps a summarize failure to an HTTP status and a detail
// message. backendURL names the inference backend in operator hints.
func errorResponse(err error, backendURL string) (int, string) {
	switch summarize.KindOf(err) {
	case summarize.KindEmptyText:
		return http.StatusBadRequest, "Text cannot be empty"
	case summarize.KindTooShort:
		return http.StatusBadRequest, fmt.Sprintf(
			"Text should be at least %d characters long for meaningful summarization", summarize.MinTextLength)
	case summarize.KindUpstreamUnreachable:
		return http.StatusBadGateway, fmt.Sprintf(
			"Cannot connect to Ollama service. Make sure Ollama is running on %s", backendURL)
	case summarize.KindUpstreamError:
		return http.StatusBadGateway, "Error communicating with Ollama service"
	case summarize.KindUpstreamTimeout:
		return http.StatusGatewayTimeout, "Request timeout - the model is taking too long to respond"
	case summarize.KindEmptyResult:
		return http.StatusInternalServerError, "No summary generated"
	case summarize.KindCanceled:
		return StatusClientClosedRequest, "Client closed request"
	default:
		return http.StatusInternalServerError, "Internal server error: " + rootCause(err).Error()
	}
}

// rootCause returns the innermost wrapped error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
