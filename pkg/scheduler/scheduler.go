package scheduler

import (
	"context"
	"time"

	"github.com/bf2-milsims/census/plugins"
	"github.com/bf2-milsims/census/plugins/common"
	"go.uber.org/zap"
)

type Scheduler struct {
	logger   *zap.Logger
	plugins  []plugins.Plugin
	interval time.Duration
}

func NewScheduler(
	logger *zap.Logger,
	list []plugins.Plugin,
	interval time.Duration,
) *Scheduler {
	return &Scheduler{
		logger:   logger,
		plugins:  list,
		interval: interval,
	}
}

// Start runs all plugins once and then every interval until ctx is done
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce runs every plugin once, failures are reported through the run
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, plugin := range s.plugins {
		if ctx.Err() != nil {
			return
		}

		run := common.NewRun(ctx, s.logger, plugin.Name())

		run.Except(plugin.Run(run))
	}
}
