package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"company-staff-api/internal/core/auth"
	"company-staff-api/internal/core/config"
	"company-staff-api/internal/core/server"
	"company-staff-api/internal/service"
	"company-staff-api/internal/transport/http/ez"
	"company-staff-api/internal/transport/http/handler"
	mdw "company-staff-api/internal/transport/http/middleware"
	resp "company-staff-api/internal/transport/http/response"
)

type Services struct {
	Auth      *service.AuthService
	Companies *service.CompanyService
	Employees *service.EmployeeService
	Users     *service.UserService
}

func NewAPIEngine(l *zap.Logger, httpCfg config.HTTP, jwter *auth.JWTer, svc Services) *gin.Engine {
	r := server.NewRouter(l, server.Options{Mode: httpCfg.Mode, CORSOrigins: httpCfg.CORSOrigins})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(httpCfg.RateLimitRPS), httpCfg.RateLimitBurst),
		mdw.ConcurrencyLimit(httpCfg.MaxConcurrency),
		mdw.MaxBodyBytes(httpCfg.MaxBodyBytes),
		mdw.Timeout(time.Duration(httpCfg.RequestTimeout)*time.Second),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l, "/health", "/metrics"),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound) })

	v1 := r.Group("/v1")
	// 公共分组：登录/注册按 IP 限速
	public := v1.Group("", mdw.RateLimitPerIP(rate.Limit(httpCfg.AuthRateLimitRPS), httpCfg.AuthRateLimitBurst))
	// 鉴权分组：解析 token 并从库里加载 actor
	authed := v1.Group("", mdw.AuthJWT(jwter, svc.Auth.ResolveActor, l))

	var reg Registry
	reg.Register(
		handler.NewAuthHandler(svc.Auth),
		handler.NewCompanyHandler(svc.Companies),
		handler.NewEmployeeHandler(svc.Employees),
		handler.NewUserHandler(svc.Users),
	)
	reg.MountAll(ez.New(public, l), ez.New(authed, l))

	return r
}
