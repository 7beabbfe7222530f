package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/task-tracker-api/internal/constants"
)

func newContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks?"+rawQuery, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	p := GetPaginationParams(newContext(""))
	assert.False(t, p.Enabled())

	p = GetPaginationParams(newContext("page=3&limit=10"))
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, p)

	p = GetPaginationParams(newContext("page=0&limit=1000"))
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, constants.DefaultPageSize, p.Limit)

	p = GetPaginationParams(newContext("page=2"))
	assert.True(t, p.Enabled())
	assert.Equal(t, constants.DefaultPageSize, p.Offset)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-05T23:10:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("next tuesday")
	require.Error(t, err)

	assert.Nil(t, FormatDate(nil))
	assert.Equal(t, "2024-03-05", *FormatDate(&d))
}

func TestGenerateTemporaryPassword(t *testing.T) {
	a, err := GenerateTemporaryPassword(constants.TemporaryPasswordLen)
	require.NoError(t, err)
	b, err := GenerateTemporaryPassword(constants.TemporaryPasswordLen)
	require.NoError(t, err)

	assert.Len(t, a, constants.TemporaryPasswordLen)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "0")
	assert.NotContains(t, a, "l")
}

func TestFormatValidationError(t *testing.T) {
	assert.Empty(t, FormatValidationError(nil))
	var v map[string]interface{}
	err := json.Unmarshal([]byte("{broken"), &v)
	require.Error(t, err)
	assert.Equal(t, "invalid JSON format", FormatValidationError(err))
}

func TestValidationDetails(t *testing.T) {
	type signup struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=6"`
	}

	err := validator.New().Struct(signup{Email: "nope", Password: "123"})
	require.Error(t, err)

	details := ValidationDetails(err)
	assert.Equal(t, "field 'Email' must be a valid email", details["Email"])
	assert.Equal(t, "field 'Password' must be at least 6 characters", details["Password"])

	assert.Nil(t, ValidationDetails(errors.New("boom")))
}
