package config

import (
	"echobot/internal/cli"
	"echobot/internal/common"
	"echobot/internal/poller"
	"fmt"
)

const (
	DumpFormat           = "dump-format"
	PollerAllowedUpdates = "poller-allowed-updates"
	PollerInitialOffset  = "poller-initial-offset"
	PollerLimit          = "poller-limit"
	PollerTimeout        = "poller-timeout"
)

func GetPollerFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         DumpFormat,
			DefaultValue: string(common.DumpFormatYaml),
			Usage:        fmt.Sprintf("sets the format of received updates and echo results printed to stdout (one of %v)", common.DumpFormats),
			Type:         cli.FlagTypeString,
		},
		{
			Name:         PollerAllowedUpdates,
			DefaultValue: poller.DefaultAllowedUpdates,
			Usage:        "defines the update types requested from telegram",
			Type:         cli.FlagTypeStringSlice,
		},
		{
			Name:         PollerInitialOffset,
			DefaultValue: 0,
			Usage:        "defines the update offset the first poll starts from",
			Type:         cli.FlagTypeInteger,
		},
		{
			Name:         PollerLimit,
			DefaultValue: poller.DefaultLimit,
			Usage:        "defines the maximum number of updates fetched per poll (1-100)",
			Type:         cli.FlagTypeInteger,
		},
		{
			Name:         PollerTimeout,
			DefaultValue: poller.DefaultTimeout,
			Usage:        "defines the long poll timeout in seconds",
			Type:         cli.FlagTypeInteger,
		},
	}
}
