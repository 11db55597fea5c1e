package transport

import (
	"errors"
	"net/http"

	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/platform/restclient"
	"nomadeAdmin/internal/shared/auth"
	"nomadeAdmin/internal/shared/httputil"
)

var (
	errUnknownEntity        = errors.New("unknown entity")
	errUnknownGallery       = errors.New("unknown gallery")
	errNoStats              = errors.New("entity has no stats")
	errConfirmationRequired = errors.New("confirmation required")
	errInvalidBody          = errors.New("invalid request body")
)

// newErrorMapper orders admin and gallery errors before backend kinds: a partial promotion
// wraps the backend errors that caused it.
func newErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(errUnknownEntity, http.StatusNotFound, "unknown entity").
		WithMapping(errUnknownGallery, http.StatusNotFound, "unknown gallery").
		WithMapping(errNoStats, http.StatusNotFound, "no stats for entity").
		WithMapping(errConfirmationRequired, http.StatusPreconditionRequired, "confirmation required").
		WithMapping(errInvalidBody, http.StatusBadRequest, "invalid request body").
		WithMapping(usecase.ErrInvalidForm, http.StatusBadRequest, "invalid form").
		WithMapping(usecase.ErrMissingCredentials, http.StatusBadRequest, "email and password are required").
		WithMapping(usecase.ErrSubmitInProgress, http.StatusConflict, "submit already in progress").
		WithMapping(usecase.ErrUnsupported, http.StatusMethodNotAllowed, "operation not supported").
		WithMapping(usecase.ErrImageURLRequired, http.StatusBadRequest, "image url is required").
		WithMapping(usecase.ErrImageNotFound, http.StatusNotFound, "image not found").
		WithMapping(usecase.ErrPromoteUnsupported, http.StatusUnprocessableEntity, "gallery has no primary flag").
		WithMapping(usecase.ErrPartialPromotion, http.StatusBadGateway, "primary image partially updated").
		WithMapping(auth.ErrNotAuthenticated, http.StatusUnauthorized, "not authenticated").
		WithMapping(restclient.ErrValidation, http.StatusBadRequest, "backend rejected the request").
		WithMapping(restclient.ErrUnauthorized, http.StatusUnauthorized, "session expired").
		WithMapping(restclient.ErrForbidden, http.StatusForbidden, "forbidden").
		WithMapping(restclient.ErrNotFound, http.StatusNotFound, "not found").
		WithMapping(restclient.ErrConflict, http.StatusConflict, "conflict").
		WithMapping(restclient.ErrTransport, http.StatusBadGateway, "backend unreachable").
		WithMapping(restclient.ErrUnexpectedStatus, http.StatusBadGateway, "unexpected backend response").
		WithMessageResolver(func(err error, fallback string) string {
			if errors.Is(err, usecase.ErrPartialPromotion) {
				return fallback
			}
			return restclient.UserMessage(err, fallback)
		}).
		WithDetailsResolver(errorDetails)
}

// errorDetails reports field errors as one object shape, "field": "message", whether the form
// or the backend rejected the input.
func errorDetails(err error) any {
	var invalid *usecase.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Fields
	}
	var apiErr *restclient.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		fields := usecase.FieldErrors{}
		for _, field := range apiErr.Fields {
			if _, seen := fields[field.Field]; seen || len(field.Messages) == 0 {
				continue
			}
			fields[field.Field] = field.Messages[0]
		}
		if len(fields) > 0 {
			return fields
		}
	}
	return nil
}
