package telegram

import (
	"context"
	"echobot/internal/common"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
)

const (
	DefaultApiUrl         = "https://api.telegram.org"
	DefaultRequestTimeout = 30 * time.Second
)

// Client performs request/response cycles against the telegram bot api
// and normalises the `{ok, result}` envelope into a result or an error
type Client struct {
	// apiUrl is the base url without the trailing slash, the bot
	// token and method name are appended per request
	apiUrl string

	// token is the bot credential, it must never appear in logs or
	// returned errors
	token string

	httpClient  *http.Client
	serviceLogs chan<- common.ServiceLog
}

type NewClientOpts struct {
	// ApiUrl defaults to DefaultApiUrl
	ApiUrl string

	BotToken string

	// HttpClient defaults to a client with DefaultRequestTimeout, the
	// timeout must be longer than the long poll timeout
	HttpClient *http.Client

	ServiceLogs chan<- common.ServiceLog
}

func NewClient(opts NewClientOpts) (*Client, error) {
	if opts.BotToken == "" {
		return nil, ErrorTokenMissing
	}
	apiUrl := strings.TrimRight(opts.ApiUrl, "/")
	if apiUrl == "" {
		apiUrl = DefaultApiUrl
	}
	if _, err := url.Parse(apiUrl); err != nil {
		return nil, fmt.Errorf("failed to parse api url[%s]: %w", apiUrl, err)
	}
	httpClient := opts.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	var serviceLogs chan<- common.ServiceLog = common.GetNoopServiceLog()
	if opts.ServiceLogs != nil {
		serviceLogs = opts.ServiceLogs
	}
	return &Client{
		apiUrl:      apiUrl,
		token:       opts.BotToken,
		httpClient:  httpClient,
		serviceLogs: serviceLogs,
	}, nil
}

// Invoke calls `methodName` with `params` sent as query fields for GET
// and as an urlencoded form for POST. On `ok: true` the `result` field is
// decoded into `out` unless `out` is nil. Returned errors match one of
// ErrorTransport, ErrorApi or ErrorParse
func (c *Client) Invoke(ctx context.Context, methodName, httpMethod string, params Params, out any) (err error) {
	start := time.Now()
	defer func() {
		observeApiRequest(methodName, err, time.Since(start))
	}()

	values, err := params.Values()
	if err != nil {
		return fmt.Errorf("method[%s]: %w", methodName, err)
	}

	endpoint := c.getMethodUrl(methodName)
	var body io.Reader
	switch httpMethod {
	case http.MethodGet:
		if len(values) > 0 {
			endpoint += "?" + values.Encode()
		}
	case http.MethodPost:
		body = strings.NewReader(values.Encode())
	default:
		return fmt.Errorf("method[%s]: unsupported http method[%s]", methodName, httpMethod)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: method[%s]: failed to create request: %w", ErrorTransport, methodName, c.redact(err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "telegram[%s] >> %s %v field(s)", methodName, httpMethod, len(values))
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: method[%s]: %w", ErrorTransport, methodName, c.redact(err))
	}
	defer res.Body.Close()

	rawBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: method[%s]: failed to read response: %w", ErrorTransport, methodName, c.redact(err))
	}
	c.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "telegram[%s] << status[%v] %v byte(s)", methodName, res.StatusCode, len(rawBody))

	var response envelope
	if err := json.Unmarshal(rawBody, &response); err != nil {
		return fmt.Errorf("%w: method[%s]: failed to decode response with status[%v]: %w", ErrorParse, methodName, res.StatusCode, err)
	}
	if response.Ok == nil {
		return fmt.Errorf("%w: method[%s]: response with status[%v] is missing the ok field", ErrorParse, methodName, res.StatusCode)
	}
	if !*response.Ok {
		apiError := &ApiError{
			Method:      methodName,
			ErrorCode:   response.ErrorCode,
			Description: response.Description,
		}
		if response.Parameters != nil {
			apiError.MigrateToChatId = response.Parameters.MigrateToChatId
			apiError.RetryAfter = response.Parameters.RetryAfter
		}
		return apiError
	}
	if out == nil {
		return nil
	}
	if len(response.Result) == 0 {
		return fmt.Errorf("%w: method[%s]: response is missing the result field", ErrorParse, methodName)
	}
	if err := json.Unmarshal(response.Result, out); err != nil {
		return fmt.Errorf("%w: method[%s]: failed to decode result: %w", ErrorParse, methodName, err)
	}
	return nil
}

// GetUpdates long polls for updates starting at `params.Offset`, the
// call is held open by telegram for up to `params.Timeout` seconds when
// no updates are pending
func (c *Client) GetUpdates(ctx context.Context, params GetUpdatesParams) ([]models.Update, error) {
	var updates []models.Update
	if err := c.Invoke(ctx, MethodGetUpdates, http.MethodGet, params.Params(), &updates); err != nil {
		return nil, err
	}
	c.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "received %v update(s) from offset[%v]", len(updates), params.Offset)
	return updates, nil
}

func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*models.Message, error) {
	var message models.Message
	if err := c.Invoke(ctx, MethodSendMessage, http.MethodPost, params.Params(), &message); err != nil {
		return nil, err
	}
	c.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "chat[%v] >> message[%v]", params.ChatId, message.ID)
	return &message, nil
}

// GetMe returns the bot's own user, useful for verifying the token
func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.Invoke(ctx, MethodGetMe, http.MethodGet, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) getMethodUrl(methodName string) string {
	return c.apiUrl + "/bot" + c.token + "/" + methodName
}

// redact strips the request url from `err` since it embeds the token
func (c *Client) redact(err error) error {
	var urlError *url.Error
	if errors.As(err, &urlError) {
		err = urlError.Err
	}
	if strings.Contains(err.Error(), c.token) {
		return errors.New(strings.ReplaceAll(err.Error(), c.token, "<redacted>"))
	}
	return err
}
