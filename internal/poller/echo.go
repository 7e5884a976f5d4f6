package poller

import (
	"context"
	"echobot/internal/common"
	"echobot/internal/integrations/telegram"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"
)

var ErrorUnsupportedUpdate = errors.New("unsupported_update")

type MessageSender interface {
	SendMessage(ctx context.Context, params telegram.SendMessageParams) (*models.Message, error)
}

type EchoHandlerOpts struct {
	Client MessageSender

	// Dumper receives the update and the sent message, nil prints
	// nothing
	Dumper *common.Dumper

	ServiceLogs chan<- common.ServiceLog
}

// NewEchoHandler returns a Handler that replies to every text message
// with the same text
func NewEchoHandler(opts EchoHandlerOpts) Handler {
	var serviceLogs chan<- common.ServiceLog = common.GetNoopServiceLog()
	if opts.ServiceLogs != nil {
		serviceLogs = opts.ServiceLogs
	}
	return func(ctx context.Context, update models.Update) error {
		if err := opts.Dumper.Dump(fmt.Sprintf("update[%v]", update.ID), update); err != nil {
			serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to dump update[%v]: %s", update.ID, err)
		}
		message := update.Message
		if message == nil || message.Text == "" {
			return fmt.Errorf("%w: update[%v] does not carry a text message", ErrorUnsupportedUpdate, update.ID)
		}
		sent, err := opts.Client.SendMessage(ctx, telegram.SendMessageParams{
			ChatId:           message.Chat.ID,
			Text:             message.Text,
			ReplyToMessageId: message.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to echo message[%v] in chat[%v]: %w", message.ID, message.Chat.ID, err)
		}
		if err := opts.Dumper.Dump(fmt.Sprintf("echo[%v]", update.ID), sent); err != nil {
			serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to dump echo of update[%v]: %s", update.ID, err)
		}
		return nil
	}
}
