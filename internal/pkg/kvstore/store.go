// Package kvstore is the key-value persistence layer. Every entity of the
// service is stored as a JSON document under a string key; lists such as
// indexes and day logs are JSON arrays mutated through Update.
package kvstore

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the key does not exist
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrSkipWrite may be returned by an UpdateFunc to leave the stored value untouched
	ErrSkipWrite = errors.New("kvstore: skip write")
	// ErrConflict is returned when an optimistic update kept losing races
	ErrConflict = errors.New("kvstore: too many concurrent updates")
)

// maxUpdateAttempts bounds optimistic read-modify-write loops
const maxUpdateAttempts = 10

// Entry is a key/value pair returned by prefix scans
type Entry struct {
	Key   string
	Value []byte
}

// UpdateFunc receives the current value (nil, false when absent) and returns
// the value to store. It may run more than once on backends that retry.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// Store is a generic key-value store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// GetByPrefix returns all entries whose key starts with prefix, sorted by key
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
	Delete(ctx context.Context, key string) error
	// Update atomically replaces the value of key with the result of fn
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Ping(ctx context.Context) error
	Close() error
}

// prefixed namespaces every key of an underlying store
type prefixed struct {
	Store
	prefix string
}

// WithPrefix returns a Store that transparently prepends prefix to every key.
// An empty prefix returns the store unchanged.
func WithPrefix(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &prefixed{Store: store, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.Store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.Store.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return p.Store.Update(ctx, p.prefix+key, fn)
}

func (p *prefixed) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	entries, err := p.Store.GetByPrefix(ctx, p.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Key = strings.TrimPrefix(entries[i].Key, p.prefix)
	}
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
}
