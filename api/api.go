package api

import (
	"context"
	"expvar"
	"html/template"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/milsims"
	"github.com/bf2-milsims/census/roadmap"
)

const (
	defaultSiteURL      = "https://www.bf2-milsims.com"
	defaultVisitTimeout = 2 * time.Minute
	hallOfFameSize      = 10
)

// Directory is the read side of the listings
type Directory interface {
	Search(ctx context.Context, opts milsims.SearchOptions) ([]milsims.Milsim, error)
	Facets(ctx context.Context) (*milsims.Facets, error)
	FindListedBySlug(ctx context.Context, slug string) (*milsims.Milsim, error)
	OldestServers(ctx context.Context, limit int) ([]milsims.Milsim, error)
	LargestServers(ctx context.Context, limit int) ([]milsims.Milsim, error)
}

type Refresher interface {
	Refresh(ctx context.Context, id uuid.UUID) error
	RefreshBatch(ctx context.Context, opts milsims.BatchOptions) (milsims.BatchResult, error)
	MaybeRefreshDirectory(ctx context.Context, opts milsims.VisitOptions) milsims.VisitResult
	LastRun(ctx context.Context, key string) (*time.Time, error)
}

type Submitter interface {
	Submit(ctx context.Context, sub milsims.Submission) (*milsims.Milsim, error)
}

type Roadmap interface {
	PublicItems(ctx context.Context) ([]roadmap.Item, error)
}

type Config struct {
	SiteURL    string
	CronSecret string

	// RefreshOnVisit triggers a lock guarded batch whenever the directory is viewed
	RefreshOnVisit bool
	Visit          milsims.VisitOptions
	VisitTimeout   time.Duration
}

// Service serves the public pages and the cron endpoint
type Service struct {
	logger      *zap.Logger
	config      Config
	directory   Directory
	refresher   Refresher
	submissions Submitter
	roadmap     Roadmap
	pages       map[string]*template.Template
	now         func() time.Time
}

func New(
	logger *zap.Logger,
	config Config,
	directory Directory,
	refresher Refresher,
	submissions Submitter,
	roadmap Roadmap,
) (*Service, error) {
	if config.SiteURL == "" {
		config.SiteURL = defaultSiteURL
	}
	if config.VisitTimeout <= 0 {
		config.VisitTimeout = defaultVisitTimeout
	}
	if config.Visit.LockKey == "" {
		config.Visit.LockKey = milsims.DirectoryLockKey
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Service{
		logger:      logger,
		config:      config,
		directory:   directory,
		refresher:   refresher,
		submissions: submissions,
		roadmap:     roadmap,
		pages:       pages,
		now:         time.Now,
	}, nil
}

// Router creates the HTTP routes of the directory
func (s *Service) Router() *chi.Mux {
	router := chi.NewRouter()

	// setup middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.DefaultCompress)

	router.Get("/", s.getHome)
	router.Get("/milsims", s.getMilsims)
	router.Get("/milsims/{slug}", s.getMilsim)
	router.Get("/submit", s.getSubmit)
	router.Post("/submit", s.postSubmit)
	router.Get("/thanks", s.getThanks)
	router.Get("/hall-of-fame", s.getHallOfFame)
	router.Get("/roadmap", s.getRoadmap)
	router.Get("/contact", s.getContact)
	router.Get("/sitemap.xml", s.getSitemap)

	router.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/cron/refresh-milsims", s.getCronRefresh)
	})

	router.Handle("/debug/vars", expvar.Handler())

	router.NotFound(s.notFound)

	return router
}
