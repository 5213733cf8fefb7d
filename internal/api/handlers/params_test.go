package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

func TestQueryParams(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	r := httptest.NewRequest(http.MethodGet, "/x?from=2025-06-01&limit=20&status=confirmed,%20waiting&status=completed&bad=abc", nil)

	from, err := QueryDate(r, "from", loc)
	require.NoError(t, err)
	require.NotNil(t, from)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, loc), *from)

	to, err := QueryDate(r, "to", loc)
	require.NoError(t, err)
	assert.Nil(t, to)

	_, err = QueryDate(r, "bad", loc)
	assert.True(t, domain.IsValidation(err))

	limit, err := QueryInt(r, "limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	offset, err := QueryInt(r, "offset", 0)
	require.NoError(t, err)
	assert.Zero(t, offset)

	_, err = QueryInt(r, "bad", 0)
	assert.True(t, domain.IsValidation(err))

	assert.Equal(t, []string{"confirmed", "waiting", "completed"}, QueryList(r, "status"))
	assert.Nil(t, QueryString(r, "search"))
}
