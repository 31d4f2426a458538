// Package storage keeps generated export files (pick lists) on local disk or
// in an S3 bucket under caller-chosen keys.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrNotFound = errors.New("storage: object not found")

type PutInput struct {
	Key         string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	// Put writes r under in.Key, replacing any previous object.
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	// Open returns ErrNotFound for a missing key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// CleanKey normalizes a key to a relative slash path with no parent segments.
func CleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." {
		return "", errors.New("storage: empty key")
	}
	return k, nil
}
