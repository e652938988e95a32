package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/milsims"
	"github.com/bf2-milsims/census/pkg/discord"
	"github.com/bf2-milsims/census/pkg/slug"
	"github.com/bf2-milsims/census/roadmap"
)

const (
	siteTitle       = "BF2 Milsim Census"
	siteDescription = "Directory and historical census of Star Wars Battlefront II milsim communities."

	genericSubmitError = "Something went wrong while submitting, please try again later."
)

type directoryPage struct {
	page
	Milsims     []milsims.Milsim
	Facets      *milsims.Facets
	Options     milsims.SearchOptions
	Sorts       []milsims.Sort
	Message     string
	LastUpdated *time.Time
}

type milsimPage struct {
	page
	Milsim *milsims.Milsim
}

type submitPage struct {
	page
	Facets  *milsims.Facets
	Message string
}

type hallOfFamePage struct {
	page
	Oldest  []milsims.Milsim
	Largest []milsims.Milsim
}

type roadmapPage struct {
	page
	Sections []roadmap.Section
}

func (s *Service) getHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "home", http.StatusOK, s.page(r, siteTitle, siteDescription))
}

func (s *Service) getMilsims(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	opts := milsims.SearchOptions{
		Query:     strings.TrimSpace(query.Get("q")),
		Platforms: nonEmpty(query["platform"]),
		Factions:  nonEmpty(query["faction"]),
		Tags:      nonEmpty(query["tag"]),
		Activity:  milsims.ParseActivity(query.Get("activity")),
		Sort:      milsims.ParseSort(query.Get("sort")),
	}

	if s.config.RefreshOnVisit {
		s.refreshInBackground()
	}

	list, err := s.directory.Search(r.Context(), opts)
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot search milsims"))
		return
	}

	facets, err := s.directory.Facets(r.Context())
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot load facets"))
		return
	}

	lastRun, err := s.refresher.LastRun(r.Context(), s.config.Visit.LockKey)
	if err != nil {
		s.logger.Warn("cannot load last refresh run", zap.Error(err))
	}

	data := directoryPage{
		page:        s.page(r, "Milsims Directory | "+siteTitle, "Verified and private Battlefront II milsim servers."),
		Milsims:     list,
		Facets:      facets,
		Options:     opts,
		Sorts:       []milsims.Sort{milsims.SortAgeDesc, milsims.SortAgeAsc, milsims.SortSizeDesc, milsims.SortSizeAsc},
		Message:     message(query.Get("msg")),
		LastUpdated: lastRun,
	}

	s.render(w, r, "milsims", http.StatusOK, data)
}

func (s *Service) getMilsim(w http.ResponseWriter, r *http.Request) {
	milsimSlug := chi.URLParam(r, "slug")
	if !slug.IsProbable(milsimSlug) {
		s.notFound(w, r)
		return
	}

	milsim, err := s.directory.FindListedBySlug(r.Context(), milsimSlug)
	if errors.Cause(err) == milsims.ErrNotFound {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot load milsim"))
		return
	}

	data := milsimPage{
		page:   s.page(r, milsim.Name+" | BF2 Milsims Directory", milsims.Description(milsim)),
		Milsim: milsim,
	}
	data.Canonical = s.config.SiteURL + "/milsims/" + url.PathEscape(milsim.Slug)
	data.Image = milsim.DiscordIconURL

	s.render(w, r, "milsim", http.StatusOK, data)
}

func (s *Service) getSubmit(w http.ResponseWriter, r *http.Request) {
	facets, err := s.directory.Facets(r.Context())
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot load facets"))
		return
	}

	data := submitPage{
		page:    s.page(r, "Submit a Milsim | "+siteTitle, "Submit a permanent invite to your Battlefront II milsim."),
		Facets:  facets,
		Message: message(r.URL.Query().Get("msg")),
	}

	s.render(w, r, "submit", http.StatusOK, data)
}

func (s *Service) postSubmit(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		redirectWithMessage(w, r, "/submit", "Could not read the submitted form.")
		return
	}

	_, err = s.submissions.Submit(r.Context(), milsims.Submission{
		InviteURL:   r.PostForm.Get("invite_url"),
		Name:        r.PostForm.Get("name"),
		SubmittedBy: r.PostForm.Get("submitted_by"),
		Notes:       r.PostForm.Get("notes"),
		Platforms:   nonEmpty(r.PostForm["platform"]),
		Factions:    splitList(r.PostForm.Get("factions")),
		Tags:        splitList(r.PostForm.Get("tags")),
	})
	if err != nil {
		msg := submissionMessage(err)
		if msg == genericSubmitError {
			s.logger.Error("failure storing submission", zap.Error(err))
		}

		redirectWithMessage(w, r, "/submit", msg)
		return
	}

	http.Redirect(w, r, "/thanks", http.StatusSeeOther)
}

func (s *Service) getThanks(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Thank you | "+siteTitle, siteDescription)
	data.NoIndex = true

	s.render(w, r, "thanks", http.StatusOK, data)
}

func (s *Service) getHallOfFame(w http.ResponseWriter, r *http.Request) {
	oldest, err := s.directory.OldestServers(r.Context(), hallOfFameSize)
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot load oldest servers"))
		return
	}

	largest, err := s.directory.LargestServers(r.Context(), hallOfFameSize)
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot load largest servers"))
		return
	}

	data := hallOfFamePage{
		page:    s.page(r, "Hall of Fame | "+siteTitle, "The oldest still-standing and largest Battlefront II milsims."),
		Oldest:  oldest,
		Largest: largest,
	}

	s.render(w, r, "hall-of-fame", http.StatusOK, data)
}

func (s *Service) getRoadmap(w http.ResponseWriter, r *http.Request) {
	items, err := s.roadmap.PublicItems(r.Context())
	if err != nil {
		s.serverError(w, r, errors.Wrap(err, "cannot load roadmap"))
		return
	}

	data := roadmapPage{
		page:     s.page(r, "Roadmap | "+siteTitle, "What is planned, in progress and done."),
		Sections: roadmap.Sections(items),
	}

	s.render(w, r, "roadmap", http.StatusOK, data)
}

func (s *Service) getContact(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "contact", http.StatusOK, s.page(r, "Contact | "+siteTitle, siteDescription))
}

func (s *Service) notFound(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Not found | "+siteTitle, siteDescription)
	data.NoIndex = true
	data.Canonical = ""

	s.render(w, r, "notfound", http.StatusNotFound, data)
}

func (s *Service) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("failure serving page",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Service) refreshInBackground() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.VisitTimeout)
		defer cancel()

		result := s.refresher.MaybeRefreshDirectory(ctx, s.config.Visit)
		if result.Ran {
			s.logger.Info("refreshed directory on visit",
				zap.Int("attempted", result.Attempted),
				zap.Int("refreshed", result.Refreshed),
			)
		}
	}()
}

// submissionMessage returns what the submitter is told about err
func submissionMessage(err error) string {
	cause := errors.Cause(err)

	switch cause {
	case milsims.ErrMissingInvite,
		milsims.ErrAlreadyListed,
		discord.ErrInvalidInvite,
		discord.ErrUnknownInvite,
		discord.ErrIncompleteGuild:
		return cause.Error()
	}

	if lookupErr, ok := cause.(*discord.LookupError); ok {
		return lookupErr.Error()
	}

	return genericSubmitError
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

// message drops values leaked by broken client side redirects
func message(msg string) string {
	msg = strings.TrimSpace(msg)
	switch msg {
	case "undefined", "null":
		return ""
	}
	return msg
}

func nonEmpty(values []string) []string {
	var result []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		result = append(result, value)
	}
	return result
}

func splitList(value string) []string {
	return nonEmpty(strings.Split(value, ","))
}
