package common

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type HttpServer struct {
	Server      http.Server
	ServiceLogs chan<- ServiceLog

	listener net.Listener
}

// Listen binds the server address without serving it
func (s *HttpServer) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on addr[%s]: %w", s.Server.Addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address once Listen succeeded and the
// configured address otherwise
func (s *HttpServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.Server.Addr
}

// Start blocks until the server is closed, a closed server is not
// considered an error. Listen is called first if it has not been
func (s *HttpServer) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.ServiceLogs <- ServiceLogf(LogLevelInfo, "starting http server on %s...", s.Addr())
	if err := s.Server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *HttpServer) Shutdown() error {
	s.ServiceLogs <- ServiceLogf(LogLevelDebug, "shutting down http server on %s...", s.Server.Addr)
	ctx, cancel := context.WithTimeout(context.Background(), DefaultDurationConnectionTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}

type NewHttpServerOpts struct {
	Addr        string
	Handler     http.Handler
	ServiceLogs chan<- ServiceLog
}

func NewHttpServer(opts NewHttpServerOpts) (*HttpServer, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("failed to receive a listen address")
	}
	if opts.Handler == nil {
		return nil, fmt.Errorf("failed to receive a handler")
	}
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = GetNoopServiceLog()
	}
	logger := GetRequestLoggerMiddleware(serviceLogs)
	metrics := GetCommonMetricsMiddleware(serviceLogs)

	handler := logger(metrics(opts.Handler))

	return &HttpServer{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			IdleTimeout:       DefaultDurationConnectionTimeout,
			ReadTimeout:       DefaultDurationConnectionTimeout,
			ReadHeaderTimeout: DefaultDurationConnectionTimeout,
			WriteTimeout:      DefaultDurationConnectionTimeout,
		},
		ServiceLogs: serviceLogs,
	}, nil
}
