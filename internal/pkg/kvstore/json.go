package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// GetJSON loads key and decodes it into T
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var out T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// SetJSON encodes value and stores it under key
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// UpdateJSON atomically decodes, mutates and re-encodes the value at key.
// fn receives the zero value and exists=false when the key is absent.
func UpdateJSON[T any](ctx context.Context, s Store, key string, fn func(current *T, exists bool) error) error {
	return s.Update(ctx, key, func(raw []byte, exists bool) ([]byte, error) {
		var current T
		if exists {
			if err := json.Unmarshal(raw, &current); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		if err := fn(&current, exists); err != nil {
			return nil, err
		}
		return json.Marshal(current)
	})
}

// AppendJSON atomically appends items to the JSON list stored at key
func AppendJSON[T any](ctx context.Context, s Store, key string, items ...T) error {
	return UpdateJSON(ctx, s, key, func(list *[]T, _ bool) error {
		*list = append(*list, items...)
		return nil
	})
}

// GetList returns the JSON list at key, or an empty list when the key is absent
func GetList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	list, err := GetJSON[[]T](ctx, s, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// GetAllJSON decodes every value stored under prefix
func GetAllJSON[T any](ctx context.Context, s Store, prefix string) ([]T, error) {
	entries, err := s.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}
