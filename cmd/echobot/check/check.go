package check

import (
	"echobot/cmd/echobot/check/telegram"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(telegram.Command.Get())
}

var Command = &cobra.Command{
	Use:   "check",
	Short: "Runs checks on external dependencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
