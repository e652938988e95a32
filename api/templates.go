package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"
	_ "time/tzdata" // Europe/Berlin on hosts without zoneinfo

	"github.com/Masterminds/sprig"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutTemplate = "templates/layout.html"
	placeholder    = "—"
)

var pageNames = []string{
	"home",
	"milsims",
	"milsim",
	"submit",
	"thanks",
	"hall-of-fame",
	"roadmap",
	"contact",
	"notfound",
}

var displayLocation = loadLocation("Europe/Berlin")

func loadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return location
}

func templateFuncs() template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["fmtDate"] = fmtDate
	funcs["fmtDateTime"] = fmtDateTime
	funcs["count"] = fmtCount
	funcs["relative"] = fmtRelative
	funcs["selected"] = selected
	return funcs
}

func parseTemplates() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	for _, name := range pageNames {
		tmpl, err := template.New(name).
			Funcs(templateFuncs()).
			ParseFS(templateFS, layoutTemplate, "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse template %s", name)
		}

		pages[name] = tmpl
	}

	return pages, nil
}

// page carries the document metadata every page renders in its head
type page struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	NoIndex     bool
	Path        string
}

func (s *Service) page(r *http.Request, title, description string) page {
	return page{
		Title:       title,
		Description: description,
		Canonical:   s.config.SiteURL + r.URL.Path,
		Path:        r.URL.Path,
	}
}

func (s *Service) render(w http.ResponseWriter, r *http.Request, name string, status int, data interface{}) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.logger.Error("unknown template", zap.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout", data)
	if err != nil {
		s.logger.Error("failure rendering template",
			zap.String("template", name),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w) // nolint: errcheck
}

func fmtDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return t.In(displayLocation).Format("02.01.2006")
}

func fmtDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return t.In(displayLocation).Format("02.01.2006, 15:04")
}

func fmtCount(v *int) string {
	if v == nil {
		return placeholder
	}
	return humanize.Comma(int64(*v))
}

func fmtRelative(t *time.Time) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return humanize.Time(*t)
}

func selected(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
