package server

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// indexFile はディレクトリへのリクエストで配信するファイル名
const indexFile = "index.html"

// staticHandler はルートディレクトリ配下のファイルを配信する
// ルートは起動時に決まり、以後変更しない
type staticHandler struct {
	root   http.FileSystem
	logger *slog.Logger
}

func newStaticHandler(dir string, logger *slog.Logger) *staticHandler {
	return &staticHandler{
		root:   http.Dir(dir),
		logger: logger,
	}
}

// Serve はリクエストパスに対応するファイルを返す
func (h *staticHandler) Serve(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}

	// path.Clean により ".." でルートの外へ出ることはない
	name := path.Clean("/" + c.Request.URL.Path)

	f, info, err := h.open(name)
	if err != nil {
		h.notFound(c, name, err)
		return
	}
	defer f.Close()

	if info.IsDir() {
		if !strings.HasSuffix(c.Request.URL.Path, "/") {
			h.redirectToDir(c)
			return
		}

		index := path.Join(name, indexFile)
		idx, idxInfo, err := h.open(index)
		if err != nil || idxInfo.IsDir() {
			if idx != nil {
				idx.Close()
			}
			h.notFound(c, index, err)
			return
		}
		defer idx.Close()

		f, info, name = idx, idxInfo, index
	}

	if err := setContentType(c.Writer.Header(), name, f); err != nil {
		h.logger.Warn("Content-Typeの判定に失敗しました", "path", name, "error", err)
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

func (h *staticHandler) open(name string) (http.File, fs.FileInfo, error) {
	f, err := h.root.Open(name)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

// redirectToDir はディレクトリのパスにスラッシュを付けてリダイレクトする
func (h *staticHandler) redirectToDir(c *gin.Context) {
	location := c.Request.URL.EscapedPath() + "/"
	if q := c.Request.URL.RawQuery; q != "" {
		location += "?" + q
	}
	c.Redirect(http.StatusTemporaryRedirect, location)
}

func (h *staticHandler) notFound(c *gin.Context, name string, err error) {
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		h.logger.Debug("静的ファイルを開けませんでした", "path", name, "error", err)
	}
	c.AbortWithStatus(http.StatusNotFound)
}

// setContentType は拡張子からContent-Typeを決める
// 拡張子から判定できない場合はファイル先頭の内容から推定する
func setContentType(header http.Header, name string, f http.File) error {
	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		header.Set("Content-Type", ctype)
		return nil
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	header.Set("Content-Type", mt.String())
	return nil
}
