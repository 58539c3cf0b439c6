// Package handlers provides the HTTP handlers for the JSON API endpoints
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	errs "github.com/questkitchen/backend/pkg/errors"
)

// validate is the shared request validator instance. Struct tags on the
// request DTOs describe the edge-level rules; domain entities enforce the
// full policy.
var validate = newValidator()

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// newValidator builds the validator with the username charset rule
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("username_charset", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// writeJSON serializes data with the given status code
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps any error onto the shared HTTP status + {"detail": ...}
// error shape. Causes never reach the client; internal failures are logged.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := errs.Wrap(err, "request failed")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}

	writeJSON(w, logger, appErr.StatusCode(), errs.ToErrorResponse(appErr))
}

// decodeJSON decodes the request body into dst and applies the DTO's
// validation tags. The returned error is ready for writeError.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewValidationError("Invalid JSON payload")
	}

	if err := validate.Struct(dst); err != nil {
		return translateValidationError(err)
	}

	return nil
}

// translateValidationError formats validator failures for API responses
func translateValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.NewValidationError("Invalid request payload")
	}

	fieldErrors := make([]errs.ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()

		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		case "username_charset":
			message = fmt.Sprintf("%s may only contain letters, digits and underscores", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldErrors = append(fieldErrors, errs.ValidationError{
			Field:   field,
			Tag:     e.Tag(),
			Message: message,
		})
	}

	return errs.NewValidationErrors(fieldErrors)
}

// MessageResponse is the body for endpoints that acknowledge an action
// without returning a resource.
type MessageResponse struct {
	Message string `json:"message"`
}
