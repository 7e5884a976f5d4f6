package telegram

import (
	"errors"
	"fmt"
)

var (
	// ErrorApi indicates that telegram responded with `ok: false`, use
	// errors.As with *ApiError to retrieve the details
	ErrorApi = errors.New("telegram_api_error")
	// ErrorParse indicates that the response body was not a valid
	// envelope or that the result could not be decoded
	ErrorParse = errors.New("telegram_parse_error")
	// ErrorTransport indicates that the request could not be
	// completed at the network level
	ErrorTransport = errors.New("telegram_transport_error")

	ErrorTokenMissing = errors.New("telegram_token_missing")
)

// ApiError carries the diagnostic fields of a failed envelope
type ApiError struct {
	Method          string
	ErrorCode       int
	Description     string
	MigrateToChatId int64
	RetryAfter      int
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("%s: method[%s] failed with code[%v]: %s", ErrorApi, e.Method, e.ErrorCode, e.Description)
}

func (e *ApiError) Unwrap() error {
	return ErrorApi
}
