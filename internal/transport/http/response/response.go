package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody {"error": "..."}
type ErrorBody struct {
	Error string `json:"error"`
}

// ValidationBody {"message": "...", "errors": {field: msg}}
type ValidationBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(status int, customMsg string) ErrorBody {
	if customMsg != "" {
		return ErrorBody{Error: customMsg}
	}
	if msg, ok := StatusMsgMap[status]; ok {
		return ErrorBody{Error: msg}
	}
	return ErrorBody{Error: http.StatusText(status)}
}

func Invalid(fields map[string]string) ValidationBody {
	if fields == nil {
		fields = map[string]string{}
	}
	return ValidationBody{Message: ValidationMessage, Errors: fields}
}

// Abort 中间件里直接结束请求
func Abort(c *gin.Context, status int) {
	c.AbortWithStatusJSON(status, Error(status, ""))
}
