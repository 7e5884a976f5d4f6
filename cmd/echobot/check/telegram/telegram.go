package telegram

import (
	"context"
	"echobot/internal/cli"
	"echobot/internal/config"
	"echobot/internal/integrations/telegram"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "check.telegram",
	Flags:   config.GetTelegramFlags(),
	Use:     "telegram",
	Aliases: []string{"tg"},
	Short:   "Checks that the bot token is accepted by the Telegram Bot API",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		requestTimeout := viper.GetDuration(config.TelegramRequestTimeout)
		client, err := telegram.NewClient(telegram.NewClientOpts{
			ApiUrl:      viper.GetString(config.TelegramApiUrl),
			BotToken:    viper.GetString(config.TelegramBotToken),
			HttpClient:  &http.Client{Timeout: requestTimeout},
			ServiceLogs: opts.GetServiceLogs(),
		})
		if err != nil {
			return fmt.Errorf("failed to create telegram client: %w", err)
		}

		logrus.Infof("verifying bot token against api[%s]...", viper.GetString(config.TelegramApiUrl))
		ctx, cancel := context.WithTimeout(opts.RunContext(), requestTimeout)
		defer cancel()
		user, err := client.GetMe(ctx)
		if err != nil {
			cli.PrintBoxedErrorMessage(fmt.Sprintf("Failed to verify the bot token: %s", err))
			return fmt.Errorf("failed to verify bot token: %w", err)
		}

		table := cli.NewTable("field", "value")
		table.AddRow("id", user.ID)
		table.AddRow("username", user.Username)
		table.AddRow("first name", user.FirstName)
		table.AddRow("is bot", user.IsBot)
		cli.PrintBoxedSuccessMessage(fmt.Sprintf("Successfully authenticated as bot[%s]", user.Username))
		fmt.Print(table.String())
		return nil
	},
})
