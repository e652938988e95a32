package api

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/milsims"
)

const (
	defaultCronLimit  = milsims.DefaultBatchLimit
	maxCronLimit      = 200
	defaultCronMinAge = 60
)

type cronSingleResponse struct {
	OK   bool      `json:"ok"`
	Mode string    `json:"mode"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
}

type cronBatchResponse struct {
	OK            bool      `json:"ok"`
	Mode          string    `json:"mode"`
	Refreshed     int       `json:"refreshed"`
	Attempted     int       `json:"attempted"`
	Limit         int       `json:"limit"`
	MinAgeSeconds int       `json:"minAgeSeconds"`
	At            time.Time `json:"at"`
}

type cronErrorResponse struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	At    time.Time `json:"at"`
}

// cronParams are the effective batch parameters of a cron call
type cronParams struct {
	Limit         int
	MinAgeSeconds int
}

func parseCronParams(values url.Values) cronParams {
	params := cronParams{
		Limit:         defaultCronLimit,
		MinAgeSeconds: defaultCronMinAge,
	}

	if limit, err := strconv.Atoi(values.Get("limit")); err == nil {
		params.Limit = limit
	}
	if params.Limit < 1 {
		params.Limit = 1
	}
	if params.Limit > maxCronLimit {
		params.Limit = maxCronLimit
	}

	if minAge, err := strconv.Atoi(values.Get("minAgeSeconds")); err == nil {
		params.MinAgeSeconds = minAge
	}
	if values.Get("force") == "1" {
		params.MinAgeSeconds = 0
	}
	if params.MinAgeSeconds < 0 {
		params.MinAgeSeconds = 0
	}

	return params
}

// authorized compares the bearer token in constant time, an unset secret
// locks the endpoint
func (s *Service) authorized(r *http.Request) bool {
	if s.config.CronSecret == "" {
		return false
	}

	expected := "Bearer " + s.config.CronSecret
	return subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), []byte(expected)) == 1
}

func (s *Service) getCronRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if rawID := r.URL.Query().Get("id"); rawID != "" {
		s.cronRefreshSingle(w, r, rawID)
		return
	}

	params := parseCronParams(r.URL.Query())

	result, err := s.refresher.RefreshBatch(r.Context(), milsims.BatchOptions{
		Limit:  params.Limit,
		MinAge: time.Duration(params.MinAgeSeconds) * time.Second,
	})
	if err != nil {
		s.cronError(w, r, err)
		return
	}

	render.JSON(w, r, cronBatchResponse{
		OK:            true,
		Mode:          "batch",
		Refreshed:     result.Refreshed,
		Attempted:     result.Attempted,
		Limit:         params.Limit,
		MinAgeSeconds: params.MinAgeSeconds,
		At:            s.now().UTC(),
	})
}

func (s *Service) cronRefreshSingle(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		s.cronError(w, r, errors.Wrap(err, "invalid milsim id"))
		return
	}

	err = s.refresher.Refresh(r.Context(), id)
	if err != nil {
		s.cronError(w, r, err)
		return
	}

	render.JSON(w, r, cronSingleResponse{
		OK:   true,
		Mode: "single",
		ID:   id.String(),
		At:   s.now().UTC(),
	})
}

func (s *Service) cronError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("cron refresh failed", zap.Error(err))

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, cronErrorResponse{
		OK:    false,
		Error: err.Error(),
		At:    s.now().UTC(),
	})
}
