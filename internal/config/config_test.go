package config

import (
	"echobot/internal/cli"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadGlobal(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(configPath, []byte("telegram-bot-token: 123456:from-file\npoller-limit: 50\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Cleanup(viper.Reset)
	Global.SourcePath = nil

	if err := LoadGlobal(configPath); err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}
	if got := viper.GetString(TelegramBotToken); got != "123456:from-file" {
		t.Errorf("%s = %s, want the value from the file", TelegramBotToken, got)
	}
	if got := viper.GetInt(PollerLimit); got != 50 {
		t.Errorf("%s = %v, want 50", PollerLimit, got)
	}
	if !Global.IsGlobalConfigExists() || *Global.SourcePath != configPath {
		t.Errorf("Global.SourcePath = %v, want %s", Global.SourcePath, configPath)
	}
}

func TestLoadGlobal_Missing(t *testing.T) {
	Global.SourcePath = nil
	directory := t.TempDir()
	for _, path := range []string{filepath.Join(directory, "missing"), directory} {
		if err := LoadGlobal(path); err != nil {
			t.Errorf("LoadGlobal(%s) error = %v, want nil", path, err)
		}
	}
	if Global.IsGlobalConfigExists() {
		t.Errorf("Global.SourcePath should not be set when no file was loaded")
	}
}

func TestLoadGlobal_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(configPath, []byte("telegram-bot-token: [unterminated\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Cleanup(viper.Reset)
	if err := LoadGlobal(configPath); err == nil {
		t.Errorf("LoadGlobal() expected an error for invalid yaml")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	expanded, err := expandHome(DefaultConfigPath)
	if err != nil {
		t.Fatalf("expandHome() error = %v", err)
	}
	if !strings.HasPrefix(expanded, home) || !strings.HasSuffix(expanded, filepath.Join(".echobot", "config")) {
		t.Errorf("expandHome() = %s", expanded)
	}
	if got, _ := expandHome("/etc/echobot"); got != "/etc/echobot" {
		t.Errorf("expandHome() changed an absolute path to %s", got)
	}
}

func TestFlagDefaults(t *testing.T) {
	names := map[string]bool{}
	for _, flags := range [][]string{
		flagNames(GetTelegramFlags()),
		flagNames(GetPollerFlags()),
		flagNames(GetMonitorFlags(12345)),
	} {
		for _, name := range flags {
			if names[name] {
				t.Errorf("flag[%s] is defined more than once", name)
			}
			names[name] = true
		}
	}
	for _, name := range []string{TelegramBotToken, TelegramApiUrl, TelegramRequestTimeout, PollerLimit, PollerTimeout, PollerInitialOffset, PollerAllowedUpdates, DumpFormat, MonitorEnabled, ListenAddr} {
		if !names[name] {
			t.Errorf("flag[%s] is not defined", name)
		}
	}
}

func flagNames(flags cli.Flags) []string {
	names := make([]string, 0, len(flags))
	for _, flag := range flags {
		names = append(names, flag.Name)
	}
	return names
}

func TestGetStringSlice(t *testing.T) {
	t.Cleanup(viper.Reset)
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "comma separated string", value: "message,edited_message", want: []string{"message", "edited_message"}},
		{name: "spaced string", value: "message, callback_query", want: []string{"message", "callback_query"}},
		{name: "slice", value: []string{"message", " edited_message "}, want: []string{"message", "edited_message"}},
		{name: "slice with commas", value: []string{"message,edited_message"}, want: []string{"message", "edited_message"}},
		{name: "empty", value: "", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set(PollerAllowedUpdates, tt.value)
			got := GetStringSlice(PollerAllowedUpdates)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("GetStringSlice() = %q, want %q", got, tt.want)
			}
		})
	}
}
