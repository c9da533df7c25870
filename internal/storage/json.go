package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetJSON loads the document at key and decodes it into a T.
func GetJSON[T any](ctx context.Context, s Storage, key string) (T, error) {
	var v T
	content, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(content, &v); err != nil {
		return v, fmt.Errorf("failed to decode document %s: %w", key, err)
	}
	return v, nil
}

// PutJSON encodes v and stores it at key.
func PutJSON[T any](ctx context.Context, s Storage, key string, v T) error {
	content, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", key, err)
	}
	return s.Put(ctx, key, content)
}
