package common

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Run is a single scheduled execution of a plugin
type Run struct {
	Launch time.Time
	Plugin string

	ctx    context.Context
	logger *zap.Logger
}

// NewRun starts a run of plugin, its logger is tagged with the plugin and launch time
func NewRun(ctx context.Context, logger *zap.Logger, plugin string) *Run {
	if logger == nil {
		logger = zap.NewNop()
	}

	launch := time.Now().UTC()

	return &Run{
		Launch: launch,
		Plugin: plugin,
		ctx:    ctx,
		logger: logger.With(
			zap.String("plugin", plugin),
			zap.Time("launch", launch),
		),
	}
}

// Context is cancelled when the scheduler shuts down
func (r *Run) Context() context.Context {
	return r.ctx
}

func (r *Run) Logger() *zap.Logger {
	return r.logger
}

func (r *Run) tags() map[string]string {
	return map[string]string{
		"plugin": r.Plugin,
		"launch": r.Launch.Format(time.RFC3339),
	}
}
