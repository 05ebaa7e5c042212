package listing

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionOptions() Options {
	return Options{
		DefaultPerPage: 20,
		MaxPerPage:     100,
		DefaultSort:    Sort{Key: "created_at", Direction: DirectionDesc},
		SortKeys:       []string{"id", "created_at", "updated_at", "amount"},
	}
}

func TestParseDefaults(t *testing.T) {
	page, err := Parse(url.Values{}, transactionOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 20, page.PerPage)
	assert.False(t, page.Cursor)
	assert.Equal(t, Sort{Key: "created_at", Direction: DirectionDesc}, page.Sort)
}

func TestParseOffsetMode(t *testing.T) {
	query := url.Values{"page": {"3"}, "per_page": {"5"}, "sort": {"id"}, "direction": {"asc"}}
	page, err := Parse(query, transactionOptions())
	require.NoError(t, err)
	assert.Equal(t, 10, page.Offset())
	assert.Equal(t, 5, page.Limit())
	assert.Equal(t, Sort{Key: "id", Direction: DirectionAsc}, page.Sort)
}

func TestParseClampsPerPage(t *testing.T) {
	page, err := Parse(url.Values{"per_page": {"5000"}}, transactionOptions())
	require.NoError(t, err)
	assert.Equal(t, 100, page.PerPage)
}

func TestParseCursorModeOverridesOffset(t *testing.T) {
	query := url.Values{"since_id": {"7"}, "page": {"4"}, "per_page": {"2"}}
	page, err := Parse(query, transactionOptions())
	require.NoError(t, err)
	assert.True(t, page.Cursor)
	assert.EqualValues(t, 7, page.SinceID)
	assert.Equal(t, 0, page.Offset())
	assert.Equal(t, 0, page.Limit())
}

func TestParseRejectsUnknownSortKey(t *testing.T) {
	_, err := Parse(url.Values{"sort": {"beneficiary; drop"}}, transactionOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, []string{"sort"}, validation.Fields)
}

func TestParseRejectsBadDirectionAndPage(t *testing.T) {
	cases := map[string]url.Values{
		"direction": {"direction": {"sideways"}},
		"page":      {"page": {"0"}},
		"per_page":  {"per_page": {"-3"}},
		"since_id":  {"since_id": {"abc"}},
	}
	for field, query := range cases {
		_, err := Parse(query, transactionOptions())
		require.Error(t, err, field)

		var validation *ValidationError
		require.True(t, errors.As(err, &validation), field)
		assert.Equal(t, []string{field}, validation.Fields)
	}
}

func TestLinkHeaderOffsetMode(t *testing.T) {
	base := &url.URL{Scheme: "http", Host: "api.test", Path: "/groups/1/transactions"}
	page, err := Parse(url.Values{"per_page": {"3"}}, transactionOptions())
	require.NoError(t, err)

	header := page.LinkHeader(base, 10)
	assert.Contains(t, header, `<http://api.test/groups/1/transactions?page=1&per_page=3>; rel="current"`)
	assert.Contains(t, header, `<http://api.test/groups/1/transactions?page=2&per_page=3>; rel="next"`)
	assert.Contains(t, header, `<http://api.test/groups/1/transactions?page=4&per_page=3>; rel="last"`)
}

func TestLinkHeaderLastPageHasNoNext(t *testing.T) {
	base := &url.URL{Scheme: "http", Host: "api.test", Path: "/groups/1/transactions"}
	page, err := Parse(url.Values{"page": {"4"}, "per_page": {"3"}}, transactionOptions())
	require.NoError(t, err)

	header := page.LinkHeader(base, 10)
	assert.NotContains(t, header, `rel="next"`)
	assert.Contains(t, header, `page=4&per_page=3>; rel="last"`)
}

func TestLinkHeaderEmptyInCursorMode(t *testing.T) {
	base := &url.URL{Scheme: "http", Host: "api.test", Path: "/groups/1/transactions"}
	page, err := Parse(url.Values{"since_id": {"0"}}, transactionOptions())
	require.NoError(t, err)
	assert.Empty(t, page.LinkHeader(base, 10))
}
