package cmd

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"

	"helloserver/internal/config"
)

func TestRootCommandDefaults(t *testing.T) {
	flags := NewRootCommand().Flags()

	testCases := map[string]string{
		"log":        "debug",
		"addr":       "127.0.0.1",
		"port":       "8080",
		"static-dir": "./web",
	}
	for name, want := range testCases {
		f := flags.Lookup(name)
		if f == nil {
			t.Errorf("フラグ --%s がありません", name)
			continue
		}
		if f.DefValue != want {
			t.Errorf("--%s のデフォルト値: got %s, want %s", name, f.DefValue, want)
		}
	}
}

func TestRootCommandParse(t *testing.T) {
	cmd := NewRootCommand()
	args := []string{"--log", "info", "-a", "::", "--port", "9000", "--static-dir", "/srv/www"}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("フラグの解析に失敗しました: %v", err)
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("log"); v != "info" {
		t.Errorf("log: got %s", v)
	}
	if v, _ := flags.GetString("addr"); v != "::" {
		t.Errorf("addr: got %s", v)
	}
	if v, _ := flags.GetUint16("port"); v != 9000 {
		t.Errorf("port: got %d", v)
	}
	if v, _ := flags.GetString("static-dir"); v != "/srv/www" {
		t.Errorf("static-dir: got %s", v)
	}
}

func TestRootCommandRejectsInvalidPort(t *testing.T) {
	cmd := NewRootCommand()
	if err := cmd.ParseFlags([]string{"--port", "70000"}); err == nil {
		t.Error("範囲外のポートでエラーが期待されました")
	}
}

// TestRunServerBindFailure はバインドに失敗した場合にエラーを返すことをテストする
func TestRunServerBindFailure(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "error")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ポートの確保に失敗しました: %v", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--addr", "127.0.0.1", "--port", strconv.Itoa(port), "--static-dir", t.TempDir()})

	err = cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("エラーが期待されましたが、エラーが発生しませんでした")
	}
	if !strings.Contains(err.Error(), "サーバーの起動に失敗しました") {
		t.Errorf("起動失敗のエラーではありません: %v", err)
	}
}
