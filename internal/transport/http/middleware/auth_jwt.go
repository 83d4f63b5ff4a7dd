package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"company-staff-api/internal/core/auth"
	"company-staff-api/internal/domain"
	"company-staff-api/internal/policy"
	resp "company-staff-api/internal/transport/http/response"
)

const KeyActor = "actor"

// ActorLoader uid -> 当前身份（从数据库读取最新角色/公司）
type ActorLoader func(ctx context.Context, uid uint) (*domain.Actor, error)

func AuthJWT(j *auth.JWTer, load ActorLoader, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized)
			return
		}
		claims, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized)
			return
		}
		actor, err := load(c.Request.Context(), claims.UID)
		if err != nil {
			if errors.Is(err, policy.ErrUnauthenticated) {
				resp.Abort(c, http.StatusUnauthorized)
				return
			}
			l.Error("resolve actor failed", zap.Uint("uid", claims.UID), zap.Error(err))
			resp.Abort(c, http.StatusInternalServerError)
			return
		}
		c.Set(KeyActor, actor)
		c.Next()
	}
}

// ActorFrom 未登录返回 nil
func ActorFrom(c *gin.Context) *domain.Actor {
	v, ok := c.Get(KeyActor)
	if !ok {
		return nil
	}
	a, _ := v.(*domain.Actor)
	return a
}
