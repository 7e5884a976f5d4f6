package echobot

import (
	"echobot/cmd/echobot/check"
	"echobot/internal/cli"
	"echobot/internal/common"
	"echobot/internal/config"
	"echobot/internal/integrations/telegram"
	"echobot/internal/monitor"
	"echobot/internal/poller"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var availableLogLevels = []string{
	string(common.LogLevelTrace),
	string(common.LogLevelDebug),
	string(common.LogLevelInfo),
	string(common.LogLevelWarn),
	string(common.LogLevelError),
}

var persistentFlags cli.Flags = cli.Flags{
	{
		Name:         "config",
		Short:        'C',
		DefaultValue: config.DefaultConfigPath,
		Usage:        "Defines the location of the global configuration used",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "log-level",
		Short:        'l',
		DefaultValue: string(common.LogLevelInfo),
		Usage:        fmt.Sprintf("Sets the log level (one of [%s])", strings.Join(availableLogLevels, ", ")),
		Type:         cli.FlagTypeString,
	},
}

var flags cli.Flags = config.GetTelegramFlags().
	Append(config.GetPollerFlags()).
	Append(config.GetMonitorFlags(12345))

func init() {
	Command.AddCommand(check.Command)
	Command.Version = config.GetVersion()
	Command.SilenceErrors = true
	Command.SilenceUsage = true

	persistentFlags.AddToCommand(Command.Get(), true)

	logrus.SetOutput(os.Stderr)
	cobra.OnInitialize(func() {
		persistentFlags.BindViper(Command.Get(), true)
		if err := cli.InitLogging(viper.GetString("log-level")); err != nil {
			logrus.Warnf("%s, falling back to level[%s]", err, common.LogLevelInfo)
			cli.InitLogging(string(common.LogLevelInfo))
		}
		configPath := viper.GetString("config")
		logrus.Debugf("using configuration at path[%s]", configPath)
		if err := config.LoadGlobal(configPath); err != nil {
			logrus.Warnf("failed to load global configuration: %s", err)
		} else if config.Global.IsGlobalConfigExists() {
			logrus.Infof("loaded configuration from path[%s]", *config.Global.SourcePath)
		}
	})

	cli.InitConfig()
}

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "echobot",
	Flags: flags,
	Use:   "echobot",
	Short: "Echoes every Telegram message sent to a bot back to its chat",
	Long: "Long polls the Telegram Bot API for updates and replies to every text message with the same text.\n\n" +
		"The bot token is read from --telegram-bot-token, the TELEGRAM_BOT_TOKEN environment variable or the " +
		"telegram-bot-token key of the configuration file",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		serviceLogs := opts.GetServiceLogs()

		pollTimeout := viper.GetInt(config.PollerTimeout)
		requestTimeout := viper.GetDuration(config.TelegramRequestTimeout)
		if requestTimeout <= time.Duration(pollTimeout)*time.Second {
			return fmt.Errorf("%s[%s] must exceed %s[%vs]", config.TelegramRequestTimeout, requestTimeout, config.PollerTimeout, pollTimeout)
		}

		logrus.Debugf("initialising telegram client...")
		client, err := telegram.NewClient(telegram.NewClientOpts{
			ApiUrl:      viper.GetString(config.TelegramApiUrl),
			BotToken:    viper.GetString(config.TelegramBotToken),
			HttpClient:  &http.Client{Timeout: requestTimeout},
			ServiceLogs: serviceLogs,
		})
		if err != nil {
			return fmt.Errorf("failed to create telegram client: %w", err)
		}

		dumper, err := common.NewDumper(common.DumpFormat(viper.GetString(config.DumpFormat)), os.Stdout)
		if err != nil {
			return fmt.Errorf("failed to create dumper: %w", err)
		}

		echoPoller, err := poller.New(poller.NewOpts{
			Client: client,
			Handler: poller.NewEchoHandler(poller.EchoHandlerOpts{
				Client:      client,
				Dumper:      dumper,
				ServiceLogs: serviceLogs,
			}),
			Limit:          viper.GetInt(config.PollerLimit),
			Timeout:        pollTimeout,
			AllowedUpdates: config.GetStringSlice(config.PollerAllowedUpdates),
			InitialOffset:  viper.GetInt64(config.PollerInitialOffset),
			ServiceLogs:    serviceLogs,
		})
		if err != nil {
			return err
		}

		if viper.GetBool(config.MonitorEnabled) {
			monitorServer, err := monitor.NewServer(monitor.NewServerOpts{
				Addr:        viper.GetString(config.ListenAddr),
				Status:      echoPoller.GetStatus(),
				ServiceLogs: serviceLogs,
			})
			if err != nil {
				return fmt.Errorf("failed to create monitoring server: %w", err)
			}
			if err := monitorServer.Listen(); err != nil {
				return fmt.Errorf("failed to start monitoring server: %w", err)
			}
			opts.AddShutdownProcess("monitor", monitorServer.Shutdown)
			go func() {
				if err := monitorServer.Start(); err != nil {
					serviceLogs <- common.ServiceLogf(common.LogLevelError, "monitoring server stopped: %s", err)
				}
			}()
		}

		logrus.Infof("polling for updates on host[%s]...", opts.GetHostname())
		if err := echoPoller.Run(opts.RunContext()); err != nil {
			return fmt.Errorf("poller stopped: %w", err)
		}
		logrus.Infof("poller stopped at offset[%v]", echoPoller.GetStatus().GetOffset())
		return nil
	},
})
