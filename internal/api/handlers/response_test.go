package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serviceErrorResponse(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	respondServiceError(c, err)
	return w
}

func TestServiceErrorHidesDetailInRelease(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	w := serviceErrorResponse(t, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, 500, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestServiceErrorShowsDetailInDebug(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := serviceErrorResponse(t, errors.New("boom from service"))

	assert.Equal(t, 500, w.Code)
	assert.Contains(t, w.Body.String(), "boom from service")
}

func TestServiceErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{services.ErrAdNotFound, 404},
		{services.ErrSettingNotFound, 404},
		{services.ErrInvalidRenewal, 400},
		{services.ErrUserExists, 400},
		{services.ErrInvalidCredentials, 401},
		{services.ErrUserDisabled, 401},
	}
	for _, tc := range cases {
		w := serviceErrorResponse(t, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}
