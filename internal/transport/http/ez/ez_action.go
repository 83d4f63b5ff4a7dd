package ez

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"company-staff-api/internal/core/throttle"
	"company-staff-api/internal/domain"
	"company-staff-api/internal/policy"
	mdw "company-staff-api/internal/transport/http/middleware"
	resp "company-staff-api/internal/transport/http/response"
	"company-staff-api/internal/validation"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 统一错误对象
type AErr struct {
	Status int
	Msg    string
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Status: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Status: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string // 例："/companies/:id"
	Binder Binder
	Auth   bool // 是否要求已解析出 actor
	Status int  // 成功状态码，默认 200；204 不写 body
	// ValidationStatus 校验失败的状态码，默认 422
	ValidationStatus int
	Handler          func(c *gin.Context, actor *domain.Actor, in *I) (O, error)
}

// 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	okStatus := a.Status
	if okStatus == 0 {
		okStatus = http.StatusOK
	}
	invalidStatus := a.ValidationStatus
	if invalidStatus == 0 {
		invalidStatus = http.StatusUnprocessableEntity
	}

	h := func(c *gin.Context) {
		// 1) 鉴权：角色/租户判定交给 service 里的 policy
		actor := mdw.ActorFrom(c)
		if a.Auth && actor == nil {
			resp.Abort(c, http.StatusUnauthorized)
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
			// 空 body 视为 {}
			if errors.Is(bindErr, io.EOF) {
				bindErr = nil
			}
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Abort(c, http.StatusRequestEntityTooLarge)
				return
			}
			resp.Abort(c, http.StatusBadRequest)
			return
		}

		// 3) 执行
		out, err := a.Handler(c, actor, &in)

		// 4) 统一错误映射
		if err != nil {
			WriteError(c, e.log, err, invalidStatus)
			return
		}
		if okStatus == http.StatusNoContent {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(okStatus, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// WriteError error -> HTTP 状态码 + body
func WriteError(c *gin.Context, l *zap.Logger, err error, invalidStatus int) {
	var (
		verr   *validation.Errors
		denial *policy.Denial
		ae     *AErr
	)
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(invalidStatus, resp.Invalid(verr.Fields))
	case errors.Is(err, domain.ErrDuplicate):
		// 并发下绕过了应用层唯一性检查
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, resp.Invalid(map[string]string{
			"record": "A record with the same unique value already exists.",
		}))
	case errors.As(err, &denial):
		mdw.ObserveDenial(string(denial.Action))
		l.Debug("policy denied",
			zap.String("action", string(denial.Action)),
			zap.String("detail", denial.Detail),
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
		)
		resp.Abort(c, http.StatusUnauthorized)
	case errors.Is(err, policy.ErrUnauthenticated),
		errors.Is(err, policy.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials):
		resp.Abort(c, http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		resp.Abort(c, http.StatusNotFound)
	case errors.Is(err, throttle.ErrTooManyAttempts):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(http.StatusTooManyRequests, "Too many login attempts. Please try again later."))
	case errors.As(err, &ae):
		if ae.Status >= http.StatusInternalServerError {
			l.Error("action failed", zap.String("rid", c.GetString(mdw.KeyRequestID)), zap.Error(err))
		}
		resp.Abort(c, ae.Status)
	case errors.Is(err, context.DeadlineExceeded):
		resp.Abort(c, http.StatusGatewayTimeout)
	default:
		l.Error("action failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp.Abort(c, http.StatusInternalServerError)
	}
}

// ParamID 路径中的 :id；非正整数按 404 处理
func ParamID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, NotFound("")
	}
	return uint(id), nil
}
