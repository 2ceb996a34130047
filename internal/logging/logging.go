// Package logging はslogロガーの構築とginのデバッグ出力の接続を担う
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// LevelTrace はdebugより詳細なログレベル
const LevelTrace = slog.LevelDebug - 4

// ParseLevel はログレベル文字列を解析する
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("不明なログレベル: %q", s)
	}
}

// New はレベル文字列からロガーを作成する
// 解析できないレベルはinfoとして扱い、警告を出力する
func New(w io.Writer, level string) *slog.Logger {
	lvl, err := ParseLevel(level)

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	if err != nil {
		logger.Warn("ログレベルをinfoにフォールバックします", "error", err)
	}
	return logger
}

// Setup はデフォルトロガーを設定し、ginのモードとルート出力をロガーに合わせる
// GIN_MODE が設定済みの場合はginのモードを変更しない
func Setup(level string) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)

	if _, ok := os.LookupEnv(gin.EnvGinMode); !ok {
		gin.SetMode(GinMode(level))
	}

	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		logger.Debug("ルートを登録しました",
			"method", httpMethod,
			"path", absolutePath,
			"handler", handlerName,
			"handlers", nuHandlers,
		)
	}

	return logger
}

// GinMode はログレベルに対応するginのモードを返す
func GinMode(level string) string {
	lvl, err := ParseLevel(level)
	if err == nil && lvl <= slog.LevelDebug {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
