package validation

import (
	"sort"
	"strings"
)

// Errors 字段 -> 错误信息；每个字段只保留第一条
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *Errors) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// OrNil 没有错误时返回 nil（避免 typed-nil error）
func (e *Errors) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Single 构造单字段错误
func Single(field, msg string) *Errors {
	e := &Errors{}
	e.Add(field, msg)
	return e
}

func label(field string) string { return strings.ReplaceAll(field, "_", " ") }

func MsgTaken(field string) string   { return "The " + label(field) + " has already been taken." }
func MsgInvalid(field string) string { return "The selected " + label(field) + " is invalid." }
