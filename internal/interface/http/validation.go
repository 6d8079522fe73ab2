package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationError renders binding failures as 422 with one detail per failed rule.
func validationError(err error) *HTTPError {
	httpErr := NewHTTPError(http.StatusUnprocessableEntity, "validation_error", "request validation failed", err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			httpErr.Details = append(httpErr.Details, FieldError{
				Field: strings.ToLower(fe.Field()),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
		return httpErr
	}
	httpErr.Message = err.Error()
	return httpErr
}
