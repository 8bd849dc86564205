package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"wozamali-core/pkg/logger"
)

type Config struct {
	HttpPort        string
	GrpcPort        string
	ShutdownTimeout time.Duration
}

// Runner is a background component (relay, consumer, health watcher) that
// runs until its context is canceled.
type Runner func(ctx context.Context)

type App struct {
	httpServer      *http.Server
	grpcServer      *grpc.Server
	grpcListener    net.Listener
	shutdownTimeout time.Duration

	runners []Runner
	closers []func()
}

func New(cfg Config, httpHandler *gin.Engine, grpcServer *grpc.Server) (*App, error) {
	// HTTP Server
	httpSrv := &http.Server{
		Addr:              ":" + cfg.HttpPort,
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC Listener
	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on grpc port %s: %w", cfg.GrpcPort, err)
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &App{
		httpServer:      httpSrv,
		grpcServer:      grpcServer,
		grpcListener:    lis,
		shutdownTimeout: timeout,
	}, nil
}

// Go registers a background component started by Run.
func (a *App) Go(r Runner) {
	a.runners = append(a.runners, r)
}

// OnShutdown registers cleanup run after the servers and background
// components have stopped, in reverse order.
func (a *App) OnShutdown(fn func()) {
	a.closers = append(a.closers, fn)
}

// Run 启动服务并阻塞，直到收到关闭信号
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Start HTTP
	go func() {
		logger.Info("Starting HTTP Server", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP Server failure", zap.Error(err))
		}
	}()

	// 2. Start gRPC
	go func() {
		logger.Info("Starting gRPC Server", zap.String("addr", a.grpcListener.Addr().String()))
		if err := a.grpcServer.Serve(a.grpcListener); err != nil {
			logger.Fatal("gRPC Server failure", zap.Error(err))
		}
	}()

	// 3. Background components
	var wg sync.WaitGroup
	for _, r := range a.runners {
		wg.Add(1)
		go func(r Runner) {
			defer wg.Done()
			r(ctx)
		}(r)
	}

	// 4. Signal Handling (Blocking)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// 5. Graceful Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer shutdownCancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP Server forced to shutdown", zap.Error(err))
	}
	a.grpcServer.GracefulStop()

	cancel()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("background components did not stop in time")
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	logger.Info("Server exited properly")
}
