package grpc_control

import (
	"fmt"
	"net"

	"stock-trend/src/logger"

	"google.golang.org/grpc"
)

// Server runs ChartService on its own listener
type Server struct {
	Logger *logger.Logger
	grpc   *grpc.Server
}

func NewServer(service *ChartService, log *logger.Logger, opts ...grpc.ServerOption) *Server {
	gs := grpc.NewServer(opts...)
	RegisterChartServer(gs, service)
	return &Server{Logger: log, grpc: gs}
}

// -----------------------------------------------------------------------------

// Serve blocks until Stop is called or the listener fails
func (s *Server) Serve(lis net.Listener) error {
	s.Logger.Info("Starting gRPC chart service on %s", lis.Addr())
	return s.grpc.Serve(lis)
}

// ListenAndServe opens host:port and serves on it
func (s *Server) ListenAndServe(host string, port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("listen for gRPC: %w", err)
	}
	return s.Serve(lis)
}

// -----------------------------------------------------------------------------

func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
