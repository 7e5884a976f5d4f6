package telegram

import "encoding/json"

const (
	MethodGetMe       = "getMe"
	MethodGetUpdates  = "getUpdates"
	MethodSendMessage = "sendMessage"
)

// envelope is the wrapper of every bot api response
type envelope struct {
	Ok          *bool               `json:"ok"`
	Result      json.RawMessage     `json:"result"`
	Description string              `json:"description"`
	ErrorCode   int                 `json:"error_code"`
	Parameters  *responseParameters `json:"parameters"`
}

type responseParameters struct {
	MigrateToChatId int64 `json:"migrate_to_chat_id"`
	RetryAfter      int   `json:"retry_after"`
}

type GetUpdatesParams struct {
	// Offset is the identifier of the first update to be returned,
	// every update with a lower identifier is acknowledged
	Offset int64

	// Limit bounds the number of updates returned, telegram accepts
	// 1-100 and defaults to 100
	Limit int

	// Timeout is the long poll duration in seconds
	Timeout int

	// AllowedUpdates when not nil restricts the update types returned
	AllowedUpdates []string
}

func (p GetUpdatesParams) Params() Params {
	params := Params{
		"offset":  p.Offset,
		"timeout": p.Timeout,
	}
	if p.Limit > 0 {
		params["limit"] = p.Limit
	}
	if p.AllowedUpdates != nil {
		params["allowed_updates"] = p.AllowedUpdates
	}
	return params
}

type SendMessageParams struct {
	ChatId           int64
	Text             string
	ReplyToMessageId int
}

func (p SendMessageParams) Params() Params {
	params := Params{
		"chat_id": p.ChatId,
		"text":    p.Text,
	}
	if p.ReplyToMessageId != 0 {
		params["reply_to_message_id"] = p.ReplyToMessageId
	}
	return params
}
