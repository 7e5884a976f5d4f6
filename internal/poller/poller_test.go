package poller

import (
	"context"
	"echobot/internal/integrations/telegram"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
)

type fakeClient struct {
	getUpdates func(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error)
}

func (f *fakeClient) GetUpdates(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error) {
	return f.getUpdates(ctx, params)
}

func newBatchClient(updateIds ...int64) *fakeClient {
	return &fakeClient{
		getUpdates: func(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error) {
			updates := make([]models.Update, 0, len(updateIds))
			for _, updateId := range updateIds {
				updates = append(updates, models.Update{ID: updateId})
			}
			return updates, nil
		},
	}
}

func noopHandler(ctx context.Context, update models.Update) error {
	return nil
}

func newTestPoller(t *testing.T, client Client, handler Handler) *Poller {
	t.Helper()
	p, err := New(NewOpts{
		Client:  client,
		Handler: handler,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    NewOpts
		wantErr bool
	}{
		{name: "valid", opts: NewOpts{Client: newBatchClient(), Handler: noopHandler}},
		{name: "missing client", opts: NewOpts{Handler: noopHandler}, wantErr: true},
		{name: "missing handler", opts: NewOpts{Client: newBatchClient()}, wantErr: true},
		{name: "limit too high", opts: NewOpts{Client: newBatchClient(), Handler: noopHandler, Limit: 101}, wantErr: true},
		{name: "negative timeout", opts: NewOpts{Client: newBatchClient(), Handler: noopHandler, Timeout: -1}, wantErr: true},
		{name: "negative offset", opts: NewOpts{Client: newBatchClient(), Handler: noopHandler, InitialOffset: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if p.limit != DefaultLimit || p.timeout != DefaultTimeout {
				t.Errorf("New() limit[%v] timeout[%v], want defaults", p.limit, p.timeout)
			}
			if p.GetStatus().GetCode() != StatusCodeInitialising {
				t.Errorf("New() status = %s, want %s", p.GetStatus().GetCode(), StatusCodeInitialising)
			}
		})
	}
}

func TestPoller_Cycle_FetchParams(t *testing.T) {
	var received telegram.GetUpdatesParams
	client := &fakeClient{
		getUpdates: func(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error) {
			received = params
			return nil, nil
		},
	}
	p, err := New(NewOpts{
		Client:         client,
		Handler:        noopHandler,
		AllowedUpdates: DefaultAllowedUpdates,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Cycle(context.Background(), 12); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	if received.Offset != 12 || received.Limit != 100 || received.Timeout != 5 {
		t.Errorf("GetUpdates() received %+v", received)
	}
	if len(received.AllowedUpdates) != 1 || received.AllowedUpdates[0] != "message" {
		t.Errorf("GetUpdates() allowed updates = %v", received.AllowedUpdates)
	}
}

func TestPoller_Cycle_AdvancesToMaxPlusOne(t *testing.T) {
	p := newTestPoller(t, newBatchClient(3, 9, 4, 5), noopHandler)
	offset, err := p.Cycle(context.Background(), 0)
	if err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	if offset != 10 {
		t.Errorf("Cycle() offset = %v, want 10", offset)
	}
}

func TestPoller_Cycle_NeverMovesBackwards(t *testing.T) {
	p := newTestPoller(t, newBatchClient(3, 4), noopHandler)
	offset, err := p.Cycle(context.Background(), 20)
	if err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	if offset != 20 {
		t.Errorf("Cycle() offset = %v, want 20", offset)
	}
}

func TestPoller_Cycle_EmptyBatch(t *testing.T) {
	handlerCalls := 0
	p := newTestPoller(t, newBatchClient(), func(ctx context.Context, update models.Update) error {
		handlerCalls++
		return nil
	})
	offset, err := p.Cycle(context.Background(), 17)
	if err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	if offset != 17 {
		t.Errorf("Cycle() offset = %v, want 17", offset)
	}
	if handlerCalls != 0 {
		t.Errorf("handler was called %v time(s), want 0", handlerCalls)
	}
}

func TestPoller_Cycle_CompletionOrder(t *testing.T) {
	lastDone := make(chan struct{})
	var completedMutex sync.Mutex
	completed := []int64{}
	handler := func(ctx context.Context, update models.Update) error {
		if update.ID != 7 {
			select {
			case <-lastDone:
			case <-time.After(5 * time.Second):
				return errors.New("update 7 never completed")
			}
		}
		completedMutex.Lock()
		completed = append(completed, update.ID)
		completedMutex.Unlock()
		if update.ID == 7 {
			close(lastDone)
		}
		return nil
	}

	p := newTestPoller(t, newBatchClient(5, 6, 7), handler)
	offset, err := p.Cycle(context.Background(), 5)
	if err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	if offset != 8 {
		t.Errorf("Cycle() offset = %v, want 8", offset)
	}
	completedMutex.Lock()
	defer completedMutex.Unlock()
	if len(completed) != 3 || completed[0] != 7 {
		t.Errorf("completion order = %v, want 7 first", completed)
	}
}

func TestPoller_Cycle_DispatchesConcurrently(t *testing.T) {
	const batchSize = 10
	var started sync.WaitGroup
	started.Add(batchSize)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()
	handler := func(ctx context.Context, update models.Update) error {
		started.Done()
		select {
		case <-allStarted:
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("handlers were not started concurrently")
		}
	}

	updateIds := make([]int64, 0, batchSize)
	for i := range batchSize {
		updateIds = append(updateIds, int64(100+i))
	}
	p := newTestPoller(t, newBatchClient(updateIds...), handler)
	offset, err := p.Cycle(context.Background(), 0)
	if err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	if offset != 100+batchSize {
		t.Errorf("Cycle() offset = %v, want %v", offset, 100+batchSize)
	}
}

func TestPoller_Cycle_WaitsForWholeBatch(t *testing.T) {
	var finishedMutex sync.Mutex
	finished := 0
	handler := func(ctx context.Context, update models.Update) error {
		time.Sleep(time.Duration(update.ID) * 10 * time.Millisecond)
		finishedMutex.Lock()
		finished++
		finishedMutex.Unlock()
		return nil
	}
	p := newTestPoller(t, newBatchClient(1, 2, 3, 4, 5), handler)
	if _, err := p.Cycle(context.Background(), 0); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	finishedMutex.Lock()
	defer finishedMutex.Unlock()
	if finished != 5 {
		t.Errorf("Cycle() returned after %v handler(s) finished, want 5", finished)
	}
}

func TestPoller_Cycle_FailFast(t *testing.T) {
	errHandler := errors.New("handler failed")
	cancelled := make(chan struct{})
	handler := func(ctx context.Context, update models.Update) error {
		if update.ID == 1 {
			return errHandler
		}
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}

	p := newTestPoller(t, newBatchClient(1, 2), handler)
	offset, err := p.Cycle(context.Background(), 1)
	if !errors.Is(err, errHandler) {
		t.Fatalf("Cycle() error = %v, want %v", err, errHandler)
	}
	if offset != 1 {
		t.Errorf("Cycle() offset = %v, want 1", offset)
	}
	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Errorf("remaining handler was not cancelled")
	}
}

func TestPoller_Cycle_HandlerPanic(t *testing.T) {
	p := newTestPoller(t, newBatchClient(1), func(ctx context.Context, update models.Update) error {
		panic("boom")
	})
	offset, err := p.Cycle(context.Background(), 0)
	if err == nil {
		t.Fatalf("Cycle() expected an error from a panicking handler")
	}
	if offset != 0 {
		t.Errorf("Cycle() offset = %v, want 0", offset)
	}
}

func TestPoller_Cycle_FetchError(t *testing.T) {
	client := &fakeClient{
		getUpdates: func(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error) {
			return nil, &telegram.ApiError{Method: telegram.MethodGetUpdates, ErrorCode: 401, Description: "Unauthorized"}
		},
	}
	p := newTestPoller(t, client, noopHandler)
	offset, err := p.Cycle(context.Background(), 3)
	if !errors.Is(err, telegram.ErrorApi) {
		t.Fatalf("Cycle() error = %v, want %v", err, telegram.ErrorApi)
	}
	if offset != 3 {
		t.Errorf("Cycle() offset = %v, want 3", offset)
	}
}

func TestPoller_Run_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var offsets []int64
	client := &fakeClient{
		getUpdates: func(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error) {
			offsets = append(offsets, params.Offset)
			switch len(offsets) {
			case 1:
				return []models.Update{{ID: 1}, {ID: 2}}, nil
			case 2:
				return []models.Update{}, nil
			}
			cancel()
			return nil, ctx.Err()
		},
	}
	p := newTestPoller(t, client, noopHandler)
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	expectedOffsets := []int64{0, 3, 3}
	if len(offsets) != len(expectedOffsets) {
		t.Fatalf("GetUpdates() offsets = %v, want %v", offsets, expectedOffsets)
	}
	for i := range expectedOffsets {
		if offsets[i] != expectedOffsets[i] {
			t.Errorf("GetUpdates() offsets = %v, want %v", offsets, expectedOffsets)
			break
		}
	}
	status := p.GetStatus()
	if status.GetCode() != StatusCodeStopped {
		t.Errorf("status = %s, want %s", status.GetCode(), StatusCodeStopped)
	}
	if status.GetOffset() != 3 {
		t.Errorf("status offset = %v, want 3", status.GetOffset())
	}
}

func TestPoller_Run_ReturnsCycleError(t *testing.T) {
	errHandler := errors.New("handler failed")
	p, err := New(NewOpts{
		Client: newBatchClient(41),
		Handler: func(ctx context.Context, update models.Update) error {
			return errHandler
		},
		InitialOffset: 40,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Run(context.Background()); !errors.Is(err, errHandler) {
		t.Fatalf("Run() error = %v, want %v", err, errHandler)
	}
	status := p.GetStatus()
	if status.GetCode() != StatusCodePollError {
		t.Errorf("status = %s, want %s", status.GetCode(), StatusCodePollError)
	}
	if !errors.Is(status.GetError(), errHandler) {
		t.Errorf("status error = %v, want %v", status.GetError(), errHandler)
	}
	if status.GetOffset() != 40 {
		t.Errorf("status offset = %v, want 40", status.GetOffset())
	}
}

func TestPoller_Run_AlreadyCancelled(t *testing.T) {
	client := &fakeClient{
		getUpdates: func(ctx context.Context, params telegram.GetUpdatesParams) ([]models.Update, error) {
			t.Errorf("GetUpdates() should not be called with a cancelled context")
			return nil, nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newTestPoller(t, client, noopHandler)
	if err := p.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
}
