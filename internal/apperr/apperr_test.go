package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"market/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.BadRequest("bad"), http.StatusBadRequest},
		{apperr.Unauthorized("who"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", apperr.NotFound("gone")), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, apperr.StatusCode(tc.err), tc.err.Error())
	}
}

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	sentinel := apperr.Unauthorized("token has expired")
	cause := errors.New("token is expired by 1h")

	err := sentinel.Wrap(cause)

	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, apperr.Unauthorized("invalid token")))
	assert.Equal(t, "token has expired: token is expired by 1h", err.Error())
	assert.Equal(t, "token has expired", apperr.Message(err))
}

func TestMessageForForeignError(t *testing.T) {
	assert.Equal(t, "Internal server error", apperr.Message(errors.New("db down")))
}
