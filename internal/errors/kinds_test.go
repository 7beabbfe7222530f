package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	notFound := New(KindNotFound, "task not found")
	wrapped := fmt.Errorf("loading: %w", notFound)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "task not found", MessageOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(stderrors.New("boom")))
	assert.Empty(t, MessageOf(stderrors.New("boom")))
	assert.True(t, stderrors.Is(wrapped, notFound))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Internal("failed to create task", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "disk full")
}

func TestRespondStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{New(KindUnauthenticated, "invalid token"), http.StatusUnauthorized, ErrCodeUnauthorized},
		{New(KindForbidden, "admin only"), http.StatusForbidden, ErrCodeForbidden},
		{Validation("title is required"), http.StatusBadRequest, ErrCodeInvalidInput},
		{New(KindNotFound, "task not found"), http.StatusNotFound, ErrCodeNotFound},
		{New(KindConflict, "email already exists"), http.StatusBadRequest, ErrCodeConflict},
		{stderrors.New("connection reset"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Respond(c, tc.err)

		require.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), tc.code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	}
}
