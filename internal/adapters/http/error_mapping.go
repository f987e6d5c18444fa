package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInvalidOutput):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrNoOutput):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// summaryOutcome labels a summarize result for metrics.
func summaryOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsKind(err, domain.ErrInvalidOutput):
		return "invalid_output"
	case domain.IsKind(err, domain.ErrNoOutput):
		return "no_output"
	default:
		return "error"
	}
}
