package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// defaultName は名前が与えられなかったときの挨拶相手
const defaultName = "World"

// HelloResponse はクエリ版挨拶エンドポイントのレスポンス
type HelloResponse struct {
	Message string `json:"message"`
}

// helloQuery は GET /api/hello/ のクエリパラメータ
type helloQuery struct {
	Name *string `form:"name"`
}

// HelloHandler は挨拶エンドポイントを実装する
// 状態を持たないため、並行するリクエスト間で共有してよい
type HelloHandler struct{}

// registerHelloRoutes は挨拶エンドポイントをルートグループに登録する
// 登録順は優先順位を兼ねる
func registerHelloRoutes(rg *gin.RouterGroup, h *HelloHandler) {
	rg.POST("/hello", h.PostHello)
	rg.GET("/hello/", h.GetHelloQuery)
	rg.GET("/hello/:name", h.GetHelloName)
}

// PostHello は固定の挨拶を返す
// リクエストボディは読まない
func (h *HelloHandler) PostHello(c *gin.Context) {
	c.String(http.StatusAccepted, greeting(defaultName))
}

// GetHelloQuery はクエリパラメータ name で挨拶をJSONで返す
func (h *HelloHandler) GetHelloQuery(c *gin.Context) {
	var q helloQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		// 解析できないクエリは未指定として扱う
		q.Name = nil
	}

	c.JSON(http.StatusOK, HelloResponse{
		Message: greeting(nameOrDefault(q.Name)),
	})
}

// GetHelloName はパスセグメントの名前で挨拶を返す
func (h *HelloHandler) GetHelloName(c *gin.Context) {
	c.String(http.StatusOK, greeting(pathParam(c, "name")))
}

// pathParam はデコード済みのパスパラメータを返す
// ルーティングが生のパスで行われた場合のみ値はエスケープされたままなので、
// url.PathUnescape でデコードする ("+" はそのまま残る)
func pathParam(c *gin.Context, key string) string {
	value := c.Param(key)
	if c.Request.URL.RawPath == "" {
		return value
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

func greeting(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}

// nameOrDefault は未指定または空の名前をデフォルトに置き換える
func nameOrDefault(name *string) string {
	if name == nil || *name == "" {
		return defaultName
	}
	return *name
}
