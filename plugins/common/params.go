package common

import (
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/milsims"
)

// StartParameters carries what plugins need to refresh the directory
type StartParameters struct {
	Logger    *zap.Logger
	Refresher *milsims.Refresher
	Refresh   milsims.VisitOptions
}

type StopParameters struct {
	Logger *zap.Logger
}
