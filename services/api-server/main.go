package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qiushui-dev/inkseal/internal/config"
	"github.com/qiushui-dev/inkseal/internal/fetch"
	"github.com/qiushui-dev/inkseal/internal/pdf/compose"
	"github.com/qiushui-dev/inkseal/internal/pdf/merge"
	"github.com/qiushui-dev/inkseal/internal/pipeline"
	"github.com/qiushui-dev/inkseal/internal/storage"
	"github.com/qiushui-dev/inkseal/services/api-server/handlers"
	"github.com/qiushui-dev/inkseal/services/api-server/middleware"
)

// Server API服务器
type Server struct {
	config   *config.Config
	router   *gin.Engine
	handlers *handlers.Handlers
}

func main() {
	// 解析命令行参数
	var configPath string
	if len(os.Args) > 2 && os.Args[1] == "-config" {
		configPath = os.Args[2]
	} else {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatalf("创建服务器失败: %v", err)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}

// NewServer 创建服务器并装配流水线
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	}

	ctx := context.Background()
	storageClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("初始化存储失败: %w", err)
	}

	fetcher := fetch.NewHTTPFetcher(fetch.Options{
		Timeout:  cfg.Pipeline.DownloadTimeout,
		MaxBytes: cfg.Pipeline.MaxDownloadBytes,
	})

	compositor := compose.NewCompositor(fetcher)
	merger := merge.NewMerger(fetcher)
	finalizer := pipeline.NewFinalizer(storageClient, compositor, merger, &cfg.Pipeline)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	server := &Server{
		config:   cfg,
		router:   router,
		handlers: handlers.NewHandlers(finalizer, merger),
	}

	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")

	// 健康检查
	api.GET("/health", s.handlers.Health)

	// 签署合成
	sign := api.Group("/sign")
	{
		sign.POST("/finalize", s.handlers.Finalize)
	}

	// 独立合并
	api.POST("/merge", s.handlers.Merge)
}

// Start 启动服务器并等待退出信号
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.Timeout,
		WriteTimeout: s.config.Server.Timeout,
	}

	go func() {
		log.Printf("API服务器启动在 %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("服务器关闭失败: %v", err)
		return err
	}

	log.Println("服务器已关闭")
	return nil
}
