package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/middleware"
)

func TestStatusOf(t *testing.T) {
	cases := map[int]error{
		http.StatusBadRequest:          apperr.Validation("x"),
		http.StatusUnauthorized:        apperr.Auth("x"),
		http.StatusForbidden:           apperr.Forbidden("x"),
		http.StatusNotFound:            apperr.NotFound("x"),
		http.StatusInternalServerError: assert.AnError,
	}
	for want, err := range cases {
		assert.Equal(t, want, statusOf(err), err.Error())
	}
	assert.Equal(t, http.StatusBadRequest, statusOf(apperr.Conflict("x")))
}

type sample struct {
	Name  string   `json:"name" validate:"required,max=5"`
	Price *float64 `json:"price" validate:"required"`
	Email string   `json:"email" validate:"omitempty,email"`
}

func TestRequestValidatorMessages(t *testing.T) {
	v := NewRequestValidator()
	price := 1.0

	err := v.Validate(sample{Price: &price})
	assert.Equal(t, "name is required", apperr.MessageOf(err))

	err = v.Validate(sample{Name: "abcdef", Price: &price})
	assert.Equal(t, "name must be at most 5 characters", apperr.MessageOf(err))

	err = v.Validate(sample{Name: "abc"})
	assert.Equal(t, "price is required", apperr.MessageOf(err))

	err = v.Validate(sample{Name: "abc", Price: &price, Email: "nope"})
	assert.Equal(t, "email is invalid", apperr.MessageOf(err))

	assert.NoError(t, v.Validate(sample{Name: "abc", Price: &price}))
}

func TestBindRejectsMalformedBody(t *testing.T) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var s sample
	err := bind(c, &s)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "invalid body", apperr.MessageOf(err))
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respondError(c, apperr.Internal("db down", assert.AnError)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestAuthorizeOwner(t *testing.T) {
	assert.NoError(t, authorizeOwner(middleware.Identity{ID: "u1"}, "u1"))
	assert.NoError(t, authorizeOwner(middleware.Identity{ID: "admin", IsAdmin: true}, "u1"))
	err := authorizeOwner(middleware.Identity{ID: "u2"}, "u1")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, msgUnauthorized, apperr.MessageOf(err))
}

type pingFunc func() error

func (p pingFunc) PingContext(_ context.Context) error { return p() }

func TestHealthAndReady(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	require.NoError(t, Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, Ready(nil)(e.NewContext(httptest.NewRequest(http.MethodGet, "/readyz", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, Ready(pingFunc(func() error { return nil }))(e.NewContext(httptest.NewRequest(http.MethodGet, "/readyz", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, Ready(pingFunc(func() error { return assert.AnError }))(e.NewContext(httptest.NewRequest(http.MethodGet, "/readyz", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
