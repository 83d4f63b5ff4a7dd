package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"company-staff-api/internal/core/auth"
	"company-staff-api/internal/core/throttle"
	"company-staff-api/internal/domain"
	"company-staff-api/internal/policy"
	"company-staff-api/internal/validation"
	"company-staff-api/pkg/utils"
)

type Token struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"` // 秒
}

type AuthService struct {
	Deps
	jwt      *auth.JWTer
	throttle throttle.Limiter
}

func NewAuthService(d Deps, jwt *auth.JWTer, lim throttle.Limiter) *AuthService {
	if lim == nil {
		lim = throttle.Nop{}
	}
	return &AuthService{Deps: d, jwt: jwt, throttle: lim}
}

// Register 公开注册，创建的账号为 super_admin，不属于任何公司
func (s *AuthService) Register(ctx context.Context, in *validation.RegisterInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.Validator.Register(ctx, in); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     domain.RoleSuperAdmin,
	}
	if err := s.Repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger().Info("super admin registered", zap.Uint("user_id", u.ID))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, in *validation.LoginInput) (*Token, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.Validator.Login(in); err != nil {
		return nil, err
	}
	if err := s.throttle.Check(ctx, in.Email); err != nil {
		if errors.Is(err, throttle.ErrTooManyAttempts) {
			return nil, err
		}
		// Redis 不可用时放行
		s.logger().Warn("login throttle unavailable", zap.Error(err))
	}

	u, err := s.Repos.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.Password) {
		if err := s.throttle.Fail(ctx, in.Email); err != nil {
			s.logger().Warn("login throttle unavailable", zap.Error(err))
		}
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.throttle.Reset(ctx, in.Email); err != nil {
		s.logger().Warn("login throttle unavailable", zap.Error(err))
	}

	tok, err := s.jwt.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Token{Token: tok, TokenType: "bearer", ExpiresIn: int(s.jwt.TTL / time.Second)}, nil
}

// ResolveActor token 中的 uid -> 当前身份；用户已删除视为未登录
func (s *AuthService) ResolveActor(ctx context.Context, uid uint) (*domain.Actor, error) {
	u, err := s.Repos.Users.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if u == nil {
		return nil, policy.ErrUnauthenticated
	}
	a := domain.ActorOf(u)
	return &a, nil
}
