package config

import (
	"echobot/internal/cli"
	"fmt"
)

const (
	ListenAddr     = "listen-addr"
	MonitorEnabled = "monitor-enabled"
)

func GetMonitorFlags(port int) cli.Flags {
	return cli.Flags{
		{
			Name:         ListenAddr,
			DefaultValue: fmt.Sprintf("0.0.0.0:%v", port),
			Usage:        "specifies the listen address of the monitoring server",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         MonitorEnabled,
			DefaultValue: false,
			Usage:        "when this flag is specified, /healthz, /readyz and /metrics are served on --listen-addr",
			Type:         cli.FlagTypeBool,
		},
	}
}
