package docsgen

import (
	"echobot/cmd/echobot"
	"echobot/internal/cli"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const environmentFileName = "_environment.md"

var flags cli.Flags = cli.Flags{
	{
		Name:         "docs-path",
		DefaultValue: "./docs/cli",
		Usage:        "defines the path to the documentation",
		Type:         cli.FlagTypeString,
	},
}

func init() {
	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "docsgen",
	Short: "Generates the Markdown reference of the echobot CLI",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		docsPath := viper.GetString("docs-path")
		logrus.Infof("generating documentation at path[%s]", docsPath)
		return Generate(echobot.Command.Get(), docsPath)
	},
}

// Generate writes one Markdown page per command of `root` into
// `docsPath` plus a page listing the environment variable of every flag
func Generate(root *cobra.Command, docsPath string) error {
	if err := os.MkdirAll(docsPath, 0755); err != nil {
		return fmt.Errorf("failed to create docs path[%s]: %w", docsPath, err)
	}
	root.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(root, docsPath); err != nil {
		return fmt.Errorf("failed to generate markdown tree: %w", err)
	}

	environment := map[string]string{}
	collectEnvironment(root, environment)
	names := make([]string, 0, len(environment))
	for name := range environment {
		names = append(names, name)
	}
	sort.Strings(names)

	var page strings.Builder
	page.WriteString("# Environment variables\n\n")
	page.WriteString("Every flag can also be set through its environment variable or as a key of the configuration file.\n\n")
	page.WriteString("| Flag | Environment variable | Usage |\n|---|---|---|\n")
	for _, name := range names {
		page.WriteString(fmt.Sprintf("| `--%s` | `%s` | %s |\n", name, getEnvironmentKey(name), environment[name]))
	}
	if err := os.WriteFile(path.Join(docsPath, environmentFileName), []byte(page.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Join(docsPath, environmentFileName), err)
	}
	return nil
}

func collectEnvironment(command *cobra.Command, into map[string]string) {
	visit := func(flag *pflag.Flag) {
		if flag.Name == "help" || flag.Name == "version" {
			return
		}
		into[flag.Name] = strings.ReplaceAll(flag.Usage, "|", `\|`)
	}
	command.LocalFlags().VisitAll(visit)
	command.PersistentFlags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectEnvironment(child, into)
	}
}

func getEnvironmentKey(flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
