package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/controller"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"numeric id becomes an integer", "42", uint64(42)},
		{"uuid passes through", "550e8400-e29b-41d4-a716-446655440000", "550e8400-e29b-41d4-a716-446655440000"},
		{"negative stays a string", "-1", "-1"},
		{"slug passes through", "some-slug", "some-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, controller.ParseID(tt.raw))
		})
	}
}

func TestParseListQuery_Defaults(t *testing.T) {
	c := contextWithQuery(t, "")

	filter, opts, err := controller.ParseListQuery(c)

	require.NoError(t, err)
	assert.Nil(t, filter)
	assert.Zero(t, opts.Limit)
	assert.Zero(t, opts.Skip)
	assert.Nil(t, opts.Sort)
}

func TestParseListQuery_AllParameters(t *testing.T) {
	c := contextWithQuery(t, `filter={"email":"a@b.com"}&limit=10&skip=5&sort={"created_at":"desc"}`)

	filter, opts, err := controller.ParseListQuery(c)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, filter)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, 5, opts.Skip)
	assert.Equal(t, map[string]string{"created_at": "desc"}, opts.Sort)
}

func TestParseListQuery_BareSortField(t *testing.T) {
	c := contextWithQuery(t, "sort=title")

	_, opts, err := controller.ParseListQuery(c)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "asc"}, opts.Sort)
}

func TestParseListQuery_MalformedFilter(t *testing.T) {
	c := contextWithQuery(t, "filter={broken")

	_, _, err := controller.ParseListQuery(c)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "filter", apiErr.Path)
}

func TestParseListQuery_NegativeLimit(t *testing.T) {
	c := contextWithQuery(t, "limit=-1")

	_, _, err := controller.ParseListQuery(c)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "limit", apiErr.Path)
}
