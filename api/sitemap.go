package api

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/bf2-milsims/census/milsims"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

var staticSitemapPages = []struct {
	path       string
	changeFreq string
	priority   float64
}{
	{"/", "daily", 1},
	{"/milsims", "hourly", 0.9},
	{"/hall-of-fame", "daily", 0.8},
	{"/roadmap", "daily", 0.6},
	{"/contact", "monthly", 0.5},
	{"/submit", "yearly", 0.5},
}

func (s *Service) sitemap(now time.Time, list []milsims.Milsim) sitemapURLSet {
	set := sitemapURLSet{XMLNS: sitemapNamespace}

	for _, static := range staticSitemapPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.config.SiteURL + static.path,
			LastMod:    now.UTC().Format(time.RFC3339),
			ChangeFreq: static.changeFreq,
			Priority:   static.priority,
		})
	}

	for _, milsim := range list {
		modified := now
		switch {
		case milsim.LastCheckedAt != nil:
			modified = *milsim.LastCheckedAt
		case milsim.ServerCreatedAt != nil:
			modified = *milsim.ServerCreatedAt
		}

		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.config.SiteURL + "/milsims/" + url.PathEscape(milsim.Slug),
			LastMod:    modified.UTC().Format(time.RFC3339),
			ChangeFreq: "daily",
			Priority:   0.7,
		})
	}

	return set
}

func (s *Service) getSitemap(w http.ResponseWriter, r *http.Request) {
	list, err := s.directory.Search(r.Context(), milsims.SearchOptions{Sort: milsims.SortAgeDesc})
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot list milsims for sitemap"))
		return
	}

	body, err := xml.MarshalIndent(s.sitemap(s.now(), list), "", "  ")
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot encode sitemap"))
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header)) // nolint: errcheck
	w.Write(body)               // nolint: errcheck
}
