package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/config"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

type supabaseBucketAPI interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	CreateSignedUrl(bucketId string, filePath string, expiresIn int) (storage_go.SignedUrlResponse, error)
	GetBucket(id string) (storage_go.Bucket, error)
}

// SupabaseStore keeps forms in a Supabase Storage bucket. The storage client has no context
// support, so ctx is only checked before each call.
type SupabaseStore struct {
	bucket string
	client supabaseBucketAPI
}

func NewSupabaseStore(cfg *config.SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase URL and service key must be provided")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.ServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &SupabaseStore{
		bucket: cfg.Bucket,
		client: client.Storage,
	}, nil
}

func (s *SupabaseStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *SupabaseStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, err := s.client.CreateSignedUrl(s.bucket, key, int(ttl/time.Second))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s in bucket %s: %w", key, s.bucket, err)
	}
	return resp.SignedURL, nil
}

func (s *SupabaseStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.client.GetBucket(s.bucket); err != nil {
		return fmt.Errorf("bucket %s is not reachable: %w", s.bucket, err)
	}
	return nil
}
