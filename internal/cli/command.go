package cli

import (
	"context"
	"echobot/internal/common"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
)

type CommandOpts struct {
	Name  string
	Flags Flags

	Use     string
	Aliases []string
	Short   string
	Long    string

	Run func(cmd *cobra.Command, opts *Command, args []string) error
}

// NewCommand initialises and returns a data structure that contains
// a set of common constructs and information for all commands to use
func NewCommand(opts CommandOpts) *Command {
	output := &Command{
		name:              opts.Name,
		shutdownProcesses: map[string]func() error{},
	}
	serviceLogs := make(chan common.ServiceLog, 64)
	common.StartServiceLogLoop(serviceLogs)
	output.serviceLogs = serviceLogs

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown_hostname"
	}
	output.hostname = hostname

	output.Command = &cobra.Command{
		Use:     opts.Use,
		Aliases: opts.Aliases,
		Short:   opts.Short,
		Long:    opts.Long,
		PreRun: func(cmd *cobra.Command, args []string) {
			opts.Flags.BindViper(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			output.ctx = ctx

			err := opts.Run(cmd, output, args)
			if ctx.Err() != nil && parent.Err() == nil {
				output.isShutdownFromSignal = true
				output.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "received interrupt, shutting down...")
			}
			output.Shutdown()
			return err
		},
	}
	opts.Flags.AddToCommand(output.Command)

	return output
}

// Command is an abstraction for all of echobot's long-running commands
type Command struct {
	ctx                  context.Context
	errs                 []error
	errsMutex            sync.Mutex
	name                 string
	hostname             string
	isShutdownFromSignal bool
	serviceLogs          chan common.ServiceLog
	shutdownProcesses    map[string]func() error

	*cobra.Command
}

// AddShutdownProcess adds a `process` named `id` for use when the
// Shutdown() method is called
func (cd *Command) AddShutdownProcess(id string, process func() error) {
	if _, ok := cd.shutdownProcesses[id]; ok {
		cd.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "process[%s] was overwritten", id)
	}
	cd.shutdownProcesses[id] = process
}

// RunContext returns the context of the current run, it is cancelled
// when the process receives SIGINT or SIGTERM
func (cd *Command) RunContext() context.Context {
	if cd.ctx == nil {
		return context.Background()
	}
	return cd.ctx
}

// Error returns any errors raised by shutdown processes
func (cd *Command) Error() error {
	cd.errsMutex.Lock()
	defer cd.errsMutex.Unlock()
	return errors.Join(cd.errs...)
}

// Get returns the underlying cobra.Command
func (cd *Command) Get() *cobra.Command {
	return cd.Command
}

// GetFullname returns the full namespaced ID of the current command
func (cd *Command) GetFullname() string {
	return strings.ToLower("echobot." + cd.name)
}

// GetHostname returns the current hostname of the machine
func (cd *Command) GetHostname() string {
	return cd.hostname
}

// GetServiceLogs returns an instance of the service logs channel
// that other components can use for logging to a central logging
// system
func (cd *Command) GetServiceLogs() chan common.ServiceLog {
	return cd.serviceLogs
}

// IsShutdownFromSignal reports whether the run ended because of an
// interrupt
func (cd *Command) IsShutdownFromSignal() bool {
	return cd.isShutdownFromSignal
}

// Shutdown runs every registered shutdown process concurrently and
// waits for all of them
func (cd *Command) Shutdown() {
	var waiter sync.WaitGroup
	cd.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "triggering shutdownProcesses (%v registered)", len(cd.shutdownProcesses))
	for id, shutdownProcess := range cd.shutdownProcesses {
		waiter.Add(1)
		go func(processId string, process func() error) {
			defer waiter.Done()
			cd.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "triggering shutdownProcess[%s]", processId)
			if err := process(); err != nil {
				cd.serviceLogs <- common.ServiceLogf(common.LogLevelError, "shutdownProcess[%s] failed: %s", processId, err)
				cd.errsMutex.Lock()
				cd.errs = append(cd.errs, fmt.Errorf("shutdownProcess[%s]: %w", processId, err))
				cd.errsMutex.Unlock()
				return
			}
			cd.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "shutdownProcess[%s] succeeded", processId)
		}(id, shutdownProcess)
	}
	waiter.Wait()
	cd.shutdownProcesses = map[string]func() error{}
}
