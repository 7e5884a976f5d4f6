package common

import "time"

const (
	DefaultDurationConnectionTimeout = 10 * time.Second
)

type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var LogLevels = []LogLevel{
	LogLevelTrace,
	LogLevelDebug,
	LogLevelInfo,
	LogLevelWarn,
	LogLevelError,
}

type DumpFormat string

const (
	DumpFormatJson DumpFormat = "json"
	DumpFormatNone DumpFormat = "none"
	DumpFormatYaml DumpFormat = "yaml"
)

var DumpFormats = []DumpFormat{
	DumpFormatYaml,
	DumpFormatJson,
	DumpFormatNone,
}
