package discordrefresh

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/milsims"
	"github.com/bf2-milsims/census/plugins/common"
)

var errNoRefresher = errors.New("no refresher configured")

type directoryRefresher interface {
	RefreshDirectory(ctx context.Context, opts milsims.VisitOptions) (milsims.VisitResult, error)
}

// Plugin keeps the directory fresh by running lock guarded batches
type Plugin struct {
	refresher directoryRefresher
	options   milsims.VisitOptions
}

func (p *Plugin) Name() string {
	return "discord-refresh"
}

func (p *Plugin) Start(params common.StartParameters) error {
	if params.Refresher == nil {
		return errNoRefresher
	}

	p.refresher = params.Refresher
	p.options = params.Refresh

	return nil
}

func (p *Plugin) Stop(params common.StopParameters) error {
	return nil
}

func (p *Plugin) Run(run *common.Run) error {
	if p.refresher == nil {
		return errNoRefresher
	}

	run.Logger().Debug("run started")

	result, err := p.refresher.RefreshDirectory(run.Context(), p.options)
	if err != nil {
		return errors.Wrap(err, "directory refresh failed")
	}
	if !result.Ran {
		run.Logger().Debug("run skipped")
		return nil
	}

	run.Logger().Info("run completed",
		zap.Int("attempted", result.Attempted),
		zap.Int("refreshed", result.Refreshed),
	)

	return nil
}
