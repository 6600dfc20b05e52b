package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/middleware"
)

// dbTimeout bounds the storage work of a single request.
const dbTimeout = 5 * time.Second

const msgUnauthorized = "Unauthorized action"

var errInvalidBody = apperr.Validation("invalid body")

// RequestValidator adapts go-playground/validator to echo.Validator. Field
// names in messages are the JSON names.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate returns an apperr validation error describing the first
// failing field.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errInvalidBody
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.Validationf("%s is required", fe.Field())
	case "max":
		return apperr.Validationf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return apperr.Validationf("%s is invalid", fe.Field())
	}
}

// bind decodes the body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return ae
		}
		return apperr.Validation(err.Error())
	}
	return nil
}

// respondError writes err as {"error": message} with the status of its kind.
// Unexpected errors are logged and reported without detail.
func respondError(c echo.Context, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Msg("request failed")
	}
	return c.JSON(status, echo.Map{"error": apperr.MessageOf(err)})
}

func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// caller returns the authenticated identity. Routes that call it are
// mounted behind JWTAuth, so a missing identity is a wiring bug.
func caller(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return middleware.Identity{}, apperr.Auth("missing bearer token")
	}
	return id, nil
}

// authorizeOwner allows the owner of a resource and admins.
func authorizeOwner(id middleware.Identity, ownerID string) error {
	if id.IsAdmin || id.ID == ownerID {
		return nil
	}
	return apperr.Forbidden(msgUnauthorized)
}

func message(format string, args ...any) echo.Map {
	return echo.Map{"message": fmt.Sprintf(format, args...)}
}
