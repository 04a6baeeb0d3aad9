package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Bucket wraps a single GCS bucket used for user uploads and generated
// audio. Public URLs go through the CDN domain when one is configured.
type Bucket struct {
	client     *gcs.Client
	bucketName string
	cdnDomain  string
}

func NewBucket(ctx context.Context) (*Bucket, error) {
	bucketName := os.Getenv("GCS_BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME is not set")
	}

	var opts []option.ClientOption
	if credsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	} else {
		log.Println("[storage] GOOGLE_APPLICATION_CREDENTIALS not set, relying on ambient credentials")
	}
	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Bucket{
		client:     client,
		bucketName: bucketName,
		cdnDomain:  os.Getenv("CDN_DOMAIN"),
	}, nil
}

// Upload writes the reader's contents to the given object key.
func (b *Bucket) Upload(ctx context.Context, key string, contentType string, data io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucketName).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, data); err != nil {
		w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize object %q: %w", key, err)
	}
	return nil
}

// Delete removes the object at key.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := b.client.Bucket(b.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// SignedUploadURL returns a V4 signed URL that accepts a single PUT of
// the object within the expiry window.
func (b *Bucket) SignedUploadURL(key string, contentType string, expiry time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "PUT",
		Expires: time.Now().Add(expiry),
	}
	if contentType != "" {
		opts.ContentType = contentType
	}

	url, err := b.client.Bucket(b.bucketName).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("sign upload URL for %q: %w", key, err)
	}
	return url, nil
}

// PublicURL returns the CDN URL for key, or the direct bucket URL when
// no CDN domain is configured.
func (b *Bucket) PublicURL(key string) string {
	if b.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", b.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucketName, key)
}

func (b *Bucket) Close() error {
	return b.client.Close()
}
