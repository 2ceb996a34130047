package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LogLevelEnv はログレベルを指定する環境変数名
const LogLevelEnv = "LOG_LEVEL"

// Config はアプリケーション全体の設定を保持する構造体
// Load で生成した後は変更しない
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Static StaticConfig
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string // リッスンするIPアドレス
	Port uint16 // リッスンするポート番号 (0 はランダムポート)

	// タイムアウト設定
	ReadTimeout  time.Duration // 読み込みタイムアウト
	WriteTimeout time.Duration // 書き込みタイムアウト
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level string // 実効ログレベル
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	Dir string // 絶対パスに解決済みのルートディレクトリ
}

// Options はコマンドラインフラグの生の値
type Options struct {
	LogLevel  string
	Addr      string
	Port      uint16
	StaticDir string
}

// DefaultOptions はフラグのデフォルト値を返す
func DefaultOptions() Options {
	return Options{
		LogLevel:  "debug",
		Addr:      "127.0.0.1",
		Port:      8080,
		StaticDir: "./web",
	}
}

// Load はフラグの値から設定を組み立てる
func Load(opts Options) (*Config, error) {
	host, _ := ParseListenIP(opts.Addr)

	staticDir, err := filepath.Abs(opts.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("静的ディレクトリの解決に失敗: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         host.String(),
			Port:         opts.Port,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: logLevel(opts.LogLevel),
		},
		Static: StaticConfig{
			Dir: staticDir,
		},
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if net.ParseIP(c.Server.Host) == nil {
		return fmt.Errorf("無効なホスト: %q", c.Server.Host)
	}
	if c.Static.Dir == "" {
		return fmt.Errorf("静的ディレクトリが指定されていません")
	}
	if c.Log.Level == "" {
		return fmt.Errorf("ログレベルが指定されていません")
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(int(c.Server.Port)))
}

// ParseListenIP はバインドアドレスを解析する
// 解析できない場合はIPv6のループバックアドレスにフォールバックし、false を返す
func ParseListenIP(addr string) (net.IP, bool) {
	if ip := net.ParseIP(addr); ip != nil {
		return ip, true
	}
	return net.IPv6loopback, false
}

// ApplyLogEnv は LOG_LEVEL が未設定（または空）の場合のみフラグの値で設定する
// 既に値が設定されている場合は変更しない
func ApplyLogEnv(flagLevel string) error {
	if os.Getenv(LogLevelEnv) != "" {
		return nil
	}
	if err := os.Setenv(LogLevelEnv, flagLevel); err != nil {
		return fmt.Errorf("%s の設定に失敗: %w", LogLevelEnv, err)
	}
	return nil
}

// logLevel は実効ログレベルを返す
// 空の LOG_LEVEL は未設定として扱い、ApplyLogEnv と同じ規則に従う
func logLevel(flagLevel string) string {
	return getEnvOrDefault(LogLevelEnv, flagLevel)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
