package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helloserver/internal/config"

	"github.com/gin-gonic/gin"
)

// shutdownTimeout はグレースフルシャットダウンの待ち時間
const shutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, logger *slog.Logger) *Server {
	engine := gin.New()

	// トレイリングスラッシュのリダイレクトや405は行わず、静的ファイルへフォールバックする
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = false

	// %2F を含むパスセグメントも1セグメントとして扱う
	// ginのデコードは "+" を空白に変えるため、パス値のデコードはハンドラで行う
	engine.UseRawPath = true
	engine.UnescapePathValues = false

	s := &Server{
		config: cfg,
		logger: logger,
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
	}
	s.setupRoutes()

	return s
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	s.engine.Use(
		gin.CustomRecoveryWithWriter(nil, s.recoveryHandler),
		requestID(),
		accessLog(s.logger),
	)

	// APIエンドポイント
	api := s.engine.Group("/api")
	registerHelloRoutes(api, &HelloHandler{})

	// どのルートにも一致しないリクエストは静的ファイルとして扱う
	s.engine.NoRoute(newStaticHandler(s.config.Static.Dir, s.logger).Serve)
}

// recoveryHandler はハンドラのpanicを500に変換する
func (s *Server) recoveryHandler(c *gin.Context, recovered any) {
	s.logger.Error("ハンドラでpanicが発生しました",
		"panic", recovered,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
	)
	c.AbortWithStatus(http.StatusInternalServerError)
}

// Handler はルーティング済みのhttp.Handlerを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start はサーバーを起動する
// バインドに失敗した場合は即座にエラーを返す
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("アドレス %s へのバインドに失敗: %w", s.httpServer.Addr, err)
	}

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.Info("HTTPサーバーを起動しています",
			"url", "http://"+ln.Addr().String(),
			"static_dir", s.config.Static.Dir,
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーが異常終了しました: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.Info("シグナルを受信しました", "signal", sig.String())
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}
