package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrValidation, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrServiceUnavailable, http.StatusServiceUnavailable},
		{errors.New("something broke"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatusFromError(tc.err), "error: %v", tc.err)
	}
}

func TestHTTPStatusFromWrappedError(t *testing.T) {
	err := fmt.Errorf("subject %q already exists: %w", "calculo-ii", ErrConflict)
	assert.Equal(t, http.StatusConflict, HTTPStatusFromError(err))
}

func TestHTTPStatusFromUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	wrapped := fmt.Errorf("insert subject: %w", pgErr)

	assert.Equal(t, http.StatusConflict, HTTPStatusFromError(wrapped))
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}
