package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const DefaultConfigPath = "~/.echobot/config"

var Global global

type global struct {
	SourcePath *string `json:"sourcePath" yaml:"sourcePath"`
}

func (g *global) IsGlobalConfigExists() bool {
	return g.SourcePath != nil
}

// LoadGlobal merges the yaml file at `from` into viper so that keys
// such as `telegram-bot-token` can be provided from a file; a missing
// file is not an error and leaves flag/env values untouched
func LoadGlobal(from string) error {
	resolvedPath, err := expandHome(from)
	if err != nil {
		return fmt.Errorf("failed to resolve config path[%s]: %w", from, err)
	}
	logrus.Debugf("loading global configuration from path[%s]...", resolvedPath)

	fi, err := os.Stat(resolvedPath)
	if errors.Is(err, os.ErrNotExist) {
		logrus.Debugf("config file not found at path[%s], flags and environment will be used", resolvedPath)
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to stat config path[%s]: %w", resolvedPath, err)
	} else if fi.IsDir() {
		logrus.Warnf("config file path[%s] led to a directory, flags and environment will be used", resolvedPath)
		return nil
	}
	viper.SetConfigFile(resolvedPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	Global.SourcePath = &resolvedPath

	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// GetStringSlice reads `key` from viper, values set through the
// environment or the config file as `a,b` are split on commas
func GetStringSlice(key string) []string {
	values := []string{}
	for _, value := range viper.GetStringSlice(key) {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
