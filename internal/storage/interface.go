// Package storage is the document store holding the materialized catalog state.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned when no document exists at a key.
var ErrNotFound = errors.New("document not found")

// DocumentInfo contains information about a stored document
type DocumentInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Storage defines the interface for document storage operations.
// Keys are slash-separated paths such as "products/p-1".
type Storage interface {
	// Put stores content at the given key, replacing any previous document
	Put(ctx context.Context, key string, content []byte) error

	// Get retrieves content from the given key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo retrieves document information without content
	GetInfo(ctx context.Context, key string) (*DocumentInfo, error)

	// Exists checks if a document exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the document at the given key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys matching the given prefix in ascending order
	List(ctx context.Context, prefix string) ([]string, error)
}

// StorageType represents the type of storage backend
type StorageType string

const (
	StorageTypeMemory   StorageType = "memory"
	StorageTypeLocal    StorageType = "local"
	StorageTypePostgres StorageType = "postgres"
)

// ComputeChecksum computes SHA256 checksum for content
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
