package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code   int    `json:"code"`
	Detail any    `json:"detail,omitempty"`
	Msg    string `json:"msg"`
}

// WithRepJSON 返回成功结果和json数据
func WithRepJSON(c *gin.Context, detail any) {
	c.JSON(http.StatusOK, Response{
		Code:   Success.Code,
		Detail: detail,
		Msg:    Success.Msg,
	})
}

// WithRepMsg 返回自定义code, msg，HTTP状态码与code一致
func WithRepMsg(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{
		Code: code,
		Msg:  msg,
	})
}

// WithRepDetail 返回自定义code, msg, detail
func WithRepDetail(c *gin.Context, code int, msg string, detail any) {
	c.JSON(code, Response{
		Code:   code,
		Detail: detail,
		Msg:    msg,
	})
}

// WithRepErrMsg 返回错误结果，附带请求路径便于排查
func WithRepErrMsg(c *gin.Context, code int, msg string, path string) {
	c.JSON(code, ResponseErr{
		Code: code,
		Msg:  msg,
		Path: path,
	})
}

type ResponseErr struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Err  any    `json:"err,omitempty"`
	Path string `json:"path,omitempty"`
}
