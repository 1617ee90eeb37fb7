package httpx

var (
	Failed        = failed(500, "request failed")
	BadRequest    = failed(400, "bad request")
	NotFound      = failed(404, "resource not found")
	InternalError = failed(500, "internal error, please contact the administrator")
)

var (
	Success = success(200, "success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}
