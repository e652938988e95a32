package common

import (
	"context"

	raven "github.com/getsentry/raven-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/milsims"
)

// Except logs a failed run once and reports it to Sentry if configured,
// cooldowns and cancelled runs are only logged at debug level
func (r *Run) Except(err error) {
	if err == nil {
		return
	}

	if ignoreError(err) {
		r.Logger().Debug("run ended early", zap.Error(err))
		return
	}

	r.Logger().Error("run execution failed", zap.Error(err))

	if raven.DefaultClient != nil {
		raven.CaptureError(err, r.tags())
	}
}

func ignoreError(err error) bool {
	if err == nil {
		return true
	}

	switch errors.Cause(err) {
	case milsims.ErrCooldown,
		context.Canceled:
		return true
	}

	return false
}
