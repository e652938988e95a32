package plugins

import (
	"github.com/bf2-milsims/census/plugins/common"
	"github.com/bf2-milsims/census/plugins/discordrefresh"
	"go.uber.org/zap"
)

type Plugin interface {
	Name() string

	Start(common.StartParameters) error

	Stop(common.StopParameters) error

	Run(run *common.Run) error
}

var (
	PluginList = []Plugin{
		&discordrefresh.Plugin{},
	}
)

// StartPlugins starts every plugin and returns those that started successfully
func StartPlugins(
	logger *zap.Logger,
	params common.StartParameters,
) []Plugin {
	started := make([]Plugin, 0, len(PluginList))

	var err error
	for _, plugin := range PluginList {
		params.Logger = logger.With(zap.String("plugin", plugin.Name()))

		err = plugin.Start(params)
		if err != nil {
			logger.Error("failed to start plugin",
				zap.String("plugin", plugin.Name()),
				zap.Error(err),
			)
			continue
		}

		started = append(started, plugin)
	}

	return started
}

func StopPlugins(
	logger *zap.Logger,
	list []Plugin,
	params common.StopParameters,
) {
	var err error
	for _, plugin := range list {
		params.Logger = logger.With(zap.String("plugin", plugin.Name()))

		err = plugin.Stop(params)
		if err != nil {
			logger.Error("failed to stop plugin",
				zap.String("plugin", plugin.Name()),
				zap.Error(err),
			)
		}
	}
}
