package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDecode marks a stored value that is present but cannot be decoded.
var ErrDecode = errors.New("stored value is not valid JSON")

// GetJSON decodes the value stored under key into T. ok=false if the key is absent.
func GetJSON[T any](ctx context.Context, s KVStore, key string) (*T, bool, error) {
	b, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w: %w", key, ErrDecode, err)
	}
	return &v, true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s KVStore, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}
