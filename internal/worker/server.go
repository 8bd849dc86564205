package worker

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"wozamali-core/internal/worker/tasks"
	"wozamali-core/pkg/logger"
)

// Server 封装 Asynq Server (Worker)
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer 初始化 Worker Server
func NewServer(addr string, password string, db int, concurrency int, wallets tasks.WalletReader) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     addr,
			Password: password,
			DB:       db,
		},
		asynq.Config{
			// 并发数：同时处理多少个任务
			Concurrency: concurrency,
			// 队列优先级
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: logger.NewAsynqLogger(),
		},
	)

	return &Server{
		server: srv,
		mux:    NewServeMux(wallets),
	}
}

// NewServeMux registers every task handler.
func NewServeMux(wallets tasks.WalletReader) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeSettlementReceipt, tasks.NewReceiptHandler(wallets))
	return mux
}

// Run 启动 Worker (阻塞)
func (s *Server) Run() error {
	logger.Info("Worker Server starting...")
	return s.server.Run(s.mux)
}

// Start 非阻塞启动 (用于集成到 main.go); shutdown is left to Stop.
func (s *Server) Start() error {
	if err := s.server.Start(s.mux); err != nil {
		logger.Error("Worker Server failed to start", zap.Error(err))
		return err
	}
	logger.Info("Worker Server started")
	return nil
}

// Stop 停止 Worker
func (s *Server) Stop() {
	s.server.Stop()
	s.server.Shutdown()
}
