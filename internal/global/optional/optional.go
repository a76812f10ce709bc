// Package optional 区分请求体中“未提供”和“显式置空”的字段
package optional

import (
	"bytes"
	"encoding/json"
)

// Value 三态字段：未出现（Set=false）、显式 null（Set=true, Null=true）、有值
type Value[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Value: v}
}

func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// Present 提供了非 null 的值
func (v Value[T]) Present() bool {
	return v.Set && !v.Null
}

// Ptr 有值返回指针，未提供或 null 返回 nil
func (v Value[T]) Ptr() *T {
	if !v.Present() {
		return nil
	}
	out := v.Value
	return &out
}

// UnmarshalJSON 仅在字段出现在 JSON 中时被调用，因此能感知“提供过”
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Null = true
		var zero T
		v.Value = zero
		return nil
	}
	v.Null = false
	return json.Unmarshal(data, &v.Value)
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}
