package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kosarica/catalog-service/internal/storage"
)

// DocumentStore implements storage.Storage on the documents table.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore creates a document store on pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) Put(ctx context.Context, key string, content []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (key, content, checksum, size, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE SET
			content = EXCLUDED.content,
			checksum = EXCLUDED.checksum,
			size = EXCLUDED.size,
			updated_at = NOW()
	`, key, content, storage.ComputeChecksum(content), int64(len(content)))
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx, `SELECT content FROM documents WHERE key = $1`, key).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to load document %s: %w", key, err)
	}
	return content, nil
}

func (s *DocumentStore) GetInfo(ctx context.Context, key string) (*storage.DocumentInfo, error) {
	info := storage.DocumentInfo{Key: key}
	err := s.pool.QueryRow(ctx, `
		SELECT size, checksum, updated_at FROM documents WHERE key = $1
	`, key).Scan(&info.Size, &info.Checksum, &info.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to load document info %s: %w", key, err)
	}
	return &info, nil
}

func (s *DocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check document %s: %w", key, err)
	}
	return exists, nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT key FROM documents
		WHERE left(key, length($1)) = $1
		ORDER BY key
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan document keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}
