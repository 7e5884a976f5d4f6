package config

import (
	"echobot/internal/cli"
	"echobot/internal/integrations/telegram"
)

const (
	TelegramApiUrl         = "telegram-api-url"
	TelegramBotToken       = "telegram-bot-token"
	TelegramRequestTimeout = "telegram-request-timeout"
)

func GetTelegramFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         TelegramApiUrl,
			DefaultValue: telegram.DefaultApiUrl,
			Usage:        "defines the base url of the telegram bot api",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         TelegramBotToken,
			DefaultValue: "",
			Usage:        "the telegram bot token, prefer setting this via TELEGRAM_BOT_TOKEN or the config file",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         TelegramRequestTimeout,
			DefaultValue: telegram.DefaultRequestTimeout,
			Usage:        "defines the timeout of a single request to the telegram bot api, must exceed the poll timeout",
			Type:         cli.FlagTypeDuration,
		},
	}
}
