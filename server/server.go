package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VinylX/config"
	"VinylX/logger"
)

// Start initializes and starts the HTTP server.
func Start(cfg *config.Config) {
	app, err := NewApp(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize application", logger.ErrorField(err))
	}

	handler := NewAlbumHandler(app.Orchestrator, app.Clients.MusicBrainz, app.Resolver)

	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      NewRouter(handler, NewRegistry()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // 热度搜索逐条解析，最坏约 1.1s × 15
		IdleTimeout:  120 * time.Second,
	}

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	// 等待中断信号
	<-stop
	logger.Info("Shutting down server...")

	// 创建一个10秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	if err := app.Close(); err != nil {
		logger.Error("Failed to release resources", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
