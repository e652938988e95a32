package api

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bf2-milsims/census/milsims"
)

func TestGetSitemap(t *testing.T) {
	ts := newTestService(t, Config{})

	checked := *legion(milsims.StatusVerified)
	unchecked := *legion(milsims.StatusPrivate)
	unchecked.Slug = "Old_Guard"
	unchecked.LastCheckedAt = nil

	ts.directory.
		On("Search", mock.Anything, milsims.SearchOptions{Sort: milsims.SortAgeDesc}).
		Return([]milsims.Milsim{checked, unchecked}, nil).
		Once()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))

	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.URLs, len(staticSitemapPages)+2)

	assert.Equal(t, "https://www.bf2-milsims.com/", set.URLs[0].Loc)
	assert.Equal(t, 1.0, set.URLs[0].Priority)

	legionURL := set.URLs[len(staticSitemapPages)]
	assert.Equal(t, "https://www.bf2-milsims.com/milsims/168th_Legion", legionURL.Loc)
	assert.Equal(t, testNow.Add(-time.Hour).Format(time.RFC3339), legionURL.LastMod)
	assert.Equal(t, 0.7, legionURL.Priority)

	oldGuard := set.URLs[len(staticSitemapPages)+1]
	assert.Equal(t, "https://www.bf2-milsims.com/milsims/Old_Guard", oldGuard.Loc)
	assert.Equal(t, "2016-04-30T11:18:25Z", oldGuard.LastMod)
}
