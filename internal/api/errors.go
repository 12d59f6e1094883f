package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/learning-tracker/internal/api/shared"
	"github.com/phrazzld/learning-tracker/internal/domain"
	"github.com/phrazzld/learning-tracker/internal/service"
	"github.com/phrazzld/learning-tracker/internal/service/auth"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// ErrUnauthenticated is used when a protected handler runs without a user in
// the request context.
var ErrUnauthenticated = errors.New("request is not authenticated")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Rule violations on otherwise well-formed input
	case errors.Is(err, service.ErrSelfDependency),
		errors.Is(err, service.ErrCircularDependency),
		errors.Is(err, service.ErrCrossItemModule):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, service.ErrDuplicateDependency),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Messages name the violated rule and the offending
// values the caller supplied, never internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		transitionErr *domain.InvalidTransitionError
		validationErr *domain.ValidationError
	)
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Authentication required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this resource"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrTagNotFound):
		return "Tag not found"
	case errors.Is(err, store.ErrLearningItemNotFound):
		return "Learning item not found"
	case errors.Is(err, store.ErrModuleNotFound):
		return "Module not found"
	case errors.Is(err, store.ErrDependencyNotFound):
		return "Dependency not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrSelfDependency):
		return "An item cannot depend on itself"
	case errors.Is(err, service.ErrCircularDependency):
		return "Dependency would create a circular reference in the dependency chain"
	case errors.Is(err, service.ErrDuplicateDependency):
		return "Dependency already exists"
	case errors.Is(err, service.ErrCrossItemModule):
		return "Every module must belong to the learning item"

	case errors.Is(err, store.ErrCategoryNameExists):
		return "Category name already exists"
	case errors.Is(err, store.ErrTagNameExists):
		return "Tag name already exists"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrCategoryInUse):
		return "Category still has learning items"

	case errors.As(err, &transitionErr):
		return fmt.Sprintf("Cannot change %s status from %s to %s",
			transitionErr.Entity, transitionErr.From, transitionErr.To)

	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err, logging
// the redacted details. fallback replaces the generic message for 5xx errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator failures into a message naming
// the offending fields and rules.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), getValidationTagMessage(fe)))
	}
	return "Invalid " + strings.Join(parts, "; ")
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "uuid":
		return "must be a UUID"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "unique":
		return "must not contain duplicates"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
