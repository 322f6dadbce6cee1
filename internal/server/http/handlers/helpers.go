package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/server/http/dto"
	"github.com/ezla-online/portal/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// OptionalUserID returns the signed in user or nil for guests.
func OptionalUserID(c *gin.Context) *int64 {
	id := CurrentUserID(c)
	if id == 0 {
		return nil
	}
	return &id
}

// bindError converts a binding failure into a field level response. Schema
// violations become 422, undecodable bodies 400.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field, msg := describeFieldError(verrs[0])
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Field: field, Error: msg})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request"})
}

func describeFieldError(fe validator.FieldError) (string, string) {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field, "is required"
	case "email":
		return field, "must be a valid address"
	case "datetime":
		return field, "must be a YYYY-MM-DD date"
	case "oneof":
		return field, "must be one of: " + fe.Param()
	case "min":
		return field, "must not be empty"
	case "pesel":
		return field, "invalid checksum"
	case "postal_code":
		return field, "must match NN-NNN"
	default:
		return field, "is invalid"
	}
}

// respondError maps domain errors of the JSON API to status codes.
func respondError(c *gin.Context, err error) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Field: verr.Field, Error: verr.Message})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "already exists"})
	case errors.Is(err, domainErrors.ErrCaseNotPayable):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "case is not payable"})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
