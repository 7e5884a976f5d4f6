package poller

import (
	"context"
	"echobot/internal/common"
	"echobot/internal/integrations/telegram"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

const (
	DefaultLimit   = 100
	DefaultTimeout = 5

	maxLimit = 100
)

var DefaultAllowedUpdates = []string{"message"}

// Client is the subset of the telegram client the poller fetches with
type Client interface {
	GetUpdates(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error)
}

// Handler processes a single update, a returned error aborts the
// current cycle
type Handler func(ctx context.Context, update models.Update) error

type Poller struct {
	client         Client
	handler        Handler
	limit          int
	timeout        int
	allowedUpdates []string
	initialOffset  int64
	serviceLogs    chan<- common.ServiceLog
	status         *Status
}

type NewOpts struct {
	Client  Client
	Handler Handler

	// Limit defaults to DefaultLimit and must not exceed 100
	Limit int

	// Timeout is the long poll duration in seconds and defaults to
	// DefaultTimeout
	Timeout int

	// AllowedUpdates is passed through to telegram as-is, nil leaves
	// the previous server-side setting in place
	AllowedUpdates []string

	InitialOffset int64

	ServiceLogs chan<- common.ServiceLog
}

func New(opts NewOpts) (*Poller, error) {
	var errs []error
	if opts.Client == nil {
		errs = append(errs, fmt.Errorf("failed to receive a client"))
	}
	if opts.Handler == nil {
		errs = append(errs, fmt.Errorf("failed to receive a handler"))
	}
	if opts.Limit < 0 || opts.Limit > maxLimit {
		errs = append(errs, fmt.Errorf("limit[%v] must be between 1 and %v", opts.Limit, maxLimit))
	}
	if opts.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout[%v] must not be negative", opts.Timeout))
	}
	if opts.InitialOffset < 0 {
		errs = append(errs, fmt.Errorf("initial offset[%v] must not be negative", opts.InitialOffset))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to create poller: %w", errors.Join(errs...))
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	var serviceLogs chan<- common.ServiceLog = common.GetNoopServiceLog()
	if opts.ServiceLogs != nil {
		serviceLogs = opts.ServiceLogs
	}
	return &Poller{
		client:         opts.Client,
		handler:        opts.Handler,
		limit:          limit,
		timeout:        timeout,
		allowedUpdates: opts.AllowedUpdates,
		initialOffset:  opts.InitialOffset,
		serviceLogs:    serviceLogs,
		status:         newStatus(opts.InitialOffset),
	}, nil
}

func (p *Poller) GetStatus() *Status {
	return p.status
}

type result struct {
	updateId int64
	err      error
}

// Cycle fetches one batch of updates from `offset`, runs the handler for
// every update concurrently and returns the offset advanced past every
// update whose handler completed. Results are reaped in completion order
// and the cycle only returns once the whole batch has been reaped, unless
// a handler fails, in which case the remaining handlers are cancelled and
// the error is returned straight away
func (p *Poller) Cycle(ctx context.Context, offset int64) (int64, error) {
	updates, err := p.client.GetUpdates(ctx, telegram.GetUpdatesParams{
		Offset:         offset,
		Limit:          p.limit,
		Timeout:        p.timeout,
		AllowedUpdates: p.allowedUpdates,
	})
	if err != nil {
		return offset, fmt.Errorf("failed to fetch updates from offset[%v]: %w", offset, err)
	}
	cyclesCounter.Inc()
	batchSizeHistogram.Observe(float64(len(updates)))
	if len(updates) == 0 {
		return offset, nil
	}

	cycleId := uuid.New().String()
	p.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "cycle[%s] dispatching %v update(s) from offset[%v]", cycleId, len(updates), offset)

	batchContext, cancelBatch := context.WithCancel(ctx)
	defer cancelBatch()

	results := make(chan result, len(updates))
	for _, update := range updates {
		go func() {
			results <- result{
				updateId: update.ID,
				err:      p.handle(batchContext, update),
			}
		}()
	}

	for range len(updates) {
		res := <-results
		if res.err != nil {
			updateFailuresCounter.Inc()
			p.serviceLogs <- common.ServiceLogf(common.LogLevelError, "cycle[%s] update[%v] failed, aborting batch: %s", cycleId, res.updateId, res.err)
			return offset, fmt.Errorf("failed to process update[%v]: %w", res.updateId, res.err)
		}
		updatesCounter.Inc()
		offset = max(offset, res.updateId+1)
		offsetGauge.Set(float64(offset))
		p.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "cycle[%s] update[%v] done, offset[%v]", cycleId, res.updateId, offset)
	}
	return offset, nil
}

// handle runs the handler with panics converted into errors
func (p *Poller) handle(ctx context.Context, update models.Update) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("handler panicked: %v", recovered)
		}
	}()
	return p.handler(ctx, update)
}

// Run cycles until `ctx` is cancelled, which is a clean stop and
// returns nil, or until a cycle fails, in which case the error is
// returned
func (p *Poller) Run(ctx context.Context) error {
	offset := p.initialOffset
	p.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "starting poller from offset[%v] with limit[%v] and timeout[%vs]", offset, p.limit, p.timeout)
	for {
		if ctx.Err() != nil {
			p.stop(offset)
			return nil
		}
		nextOffset, err := p.Cycle(ctx, offset)
		offset = nextOffset
		p.status.setOffset(offset)
		if err != nil {
			if ctx.Err() != nil {
				p.stop(offset)
				return nil
			}
			p.status.set(StatusCodePollError, err)
			return err
		}
		p.status.set(StatusCodeOk, nil)
	}
}

func (p *Poller) stop(offset int64) {
	p.status.set(StatusCodeStopped, nil)
	p.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "poller stopped at offset[%v]", offset)
}
