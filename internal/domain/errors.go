package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrDuplicate 唯一约束冲突（数据库层兜底）
var ErrDuplicate = errors.New("duplicate record")
