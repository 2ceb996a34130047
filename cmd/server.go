// Package cmd はhelloserverのコマンドライン実装です
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"helloserver/internal/config"
	"helloserver/internal/logging"
	"helloserver/internal/server"

	"github.com/spf13/cobra"
)

// NewRootCommand はルートコマンドを作成する
func NewRootCommand() *cobra.Command {
	opts := config.DefaultOptions()

	cmd := &cobra.Command{
		Use:           "helloserver",
		Short:         "挨拶APIと静的ファイルを配信するHTTPサーバー",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}

	// コマンドラインオプション
	flags := cmd.Flags()
	flags.StringVarP(&opts.LogLevel, "log", "l", opts.LogLevel, "ログレベル (trace, debug, info, warn, error)")
	flags.StringVarP(&opts.Addr, "addr", "a", opts.Addr, "リッスンするIPアドレス")
	flags.Uint16VarP(&opts.Port, "port", "p", opts.Port, "リッスンするポート")
	flags.StringVar(&opts.StaticDir, "static-dir", opts.StaticDir, "静的ファイルのディレクトリ")

	return cmd
}

// runServer は設定を読み込んでサーバーを起動する
func runServer(ctx context.Context, opts config.Options) error {
	// LOG_LEVEL が未設定ならフラグの値から設定する
	if err := config.ApplyLogEnv(opts.LogLevel); err != nil {
		return err
	}

	// 設定を読み込む
	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}

	logger := logging.Setup(cfg.Log.Level)

	if _, ok := config.ParseListenIP(opts.Addr); !ok {
		logger.Debug("バインドアドレスを解析できないためループバックを使用します",
			"addr", opts.Addr,
			"host", cfg.Server.Host,
		)
	}

	srv := server.New(cfg, logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("サーバーの起動に失敗しました: %w", err)
	}

	slog.Info("サーバーが終了しました")
	return nil
}
