package monitor

import (
	"echobot/internal/common"
	"echobot/internal/poller"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Probe returns a non-nil error when the check fails
type Probe func() error

type Probes []Probe

type handleProbeOutput struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Status   string   `json:"status"`
}

type NewRouterOpts struct {
	LivenessChecks  Probes
	ReadinessChecks Probes
}

func NewRouter(opts NewRouterOpts) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", getProbeHandler(opts.LivenessChecks)).Methods(http.MethodGet)
	router.HandleFunc("/readyz", getProbeHandler(opts.ReadinessChecks)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.NotFoundHandler = common.GetNotFoundHandler()
	return router
}

func getProbeHandler(checks Probes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issues := []error{}
		for _, check := range checks {
			if err := check(); err != nil {
				issues = append(issues, err)
			}
		}
		if len(issues) > 0 {
			common.SendHttpFailResponse(w, r, http.StatusInternalServerError, "not ok", errors.Join(issues...))
			return
		}
		common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleProbeOutput{
			Errors:   nil,
			Warnings: nil,
			Status:   "ok",
		})
	}
}

// GetPollerLivenessCheck fails once the poller has stopped on an error
func GetPollerLivenessCheck(status *poller.Status) Probe {
	return func() error {
		if status.GetCode() == poller.StatusCodePollError {
			return fmt.Errorf("poller failed at offset[%v]: %w", status.GetOffset(), status.GetError())
		}
		return nil
	}
}

// GetPollerReadinessCheck passes only after the poller has completed a
// cycle and until it stops
func GetPollerReadinessCheck(status *poller.Status) Probe {
	return func() error {
		if code := status.GetCode(); code != poller.StatusCodeOk {
			return fmt.Errorf("poller status[%s] since[%s]", code, status.GetLastChangedAt().Format(time.RFC3339))
		}
		return nil
	}
}

type NewServerOpts struct {
	Addr        string
	Status      *poller.Status
	ServiceLogs chan<- common.ServiceLog
}

// NewServer returns the monitoring server for a poller, it is not
// started
func NewServer(opts NewServerOpts) (*common.HttpServer, error) {
	if opts.Status == nil {
		return nil, fmt.Errorf("failed to receive a poller status")
	}
	router := NewRouter(NewRouterOpts{
		LivenessChecks:  Probes{GetPollerLivenessCheck(opts.Status)},
		ReadinessChecks: Probes{GetPollerReadinessCheck(opts.Status)},
	})
	return common.NewHttpServer(common.NewHttpServerOpts{
		Addr:        opts.Addr,
		Handler:     router,
		ServiceLogs: opts.ServiceLogs,
	})
}
