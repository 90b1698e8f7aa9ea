package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items?"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	p, err := Parse(contextWithQuery(""), DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 1, Limit: 12}, p)

	p, err = Parse(contextWithQuery("page=3&limit=500"), DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 3, Limit: MaxLimit}, p)

	_, err = Parse(contextWithQuery("page=0"), DefaultLimit)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = Parse(contextWithQuery("limit=abc"), DefaultLimit)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 12}, 50)
	assert.Equal(t, 5, meta.TotalPages)
	assert.True(t, meta.HasMore)

	meta = NewMeta(Params{Page: 5, Limit: 12}, 50)
	assert.False(t, meta.HasMore)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Slice(items, Params{Page: 2, Limit: 2}))
	assert.Equal(t, []int{5}, Slice(items, Params{Page: 3, Limit: 2}))
	assert.Empty(t, Slice(items, Params{Page: 9, Limit: 2}))
}
