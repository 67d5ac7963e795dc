package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GoogleCloudStorage stores assets in a Google Cloud Storage bucket.
type GoogleCloudStorage struct {
	client     *storage.Client
	bucketName string
	prefix     string
}

// NewGoogleCloudStorage creates an uninitialized GCS provider.
func NewGoogleCloudStorage() *GoogleCloudStorage {
	return &GoogleCloudStorage{}
}

// Initialize creates the GCS client. The "bucket" entry is required;
// "credentialFile" and "prefix" are optional.
func (g *GoogleCloudStorage) Initialize(config map[string]string) error {
	var opts []option.ClientOption
	if credFile, ok := config["credentialFile"]; ok && credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create Google Cloud Storage client: %w", err)
	}
	g.client = client

	bucketName, ok := config["bucket"]
	if !ok || bucketName == "" {
		return fmt.Errorf("bucket is required for Google Cloud Storage")
	}
	g.bucketName = bucketName

	if prefix, ok := config["prefix"]; ok {
		g.prefix = prefix
	}
	return nil
}

func (g *GoogleCloudStorage) objectName(key string) string {
	if g.prefix == "" {
		return key
	}
	return g.prefix + key
}

// Store uploads the object under the key.
func (g *GoogleCloudStorage) Store(ctx context.Context, key string, content io.Reader, size int64, metadata map[string]string) error {
	obj := g.client.Bucket(g.bucketName).Object(g.objectName(key))
	writer := obj.NewWriter(ctx)
	writer.Metadata = metadata

	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write object to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize object upload to GCS: %w", err)
	}
	return nil
}

// Retrieve opens the object under the key.
func (g *GoogleCloudStorage) Retrieve(ctx context.Context, key string) (io.ReadCloser, map[string]string, error) {
	obj := g.client.Bucket(g.bucketName).Object(g.objectName(key))

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object attributes from GCS: %w", err)
	}
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open object from GCS: %w", err)
	}
	return reader, attrs.Metadata, nil
}

// Delete removes the object under the key.
func (g *GoogleCloudStorage) Delete(ctx context.Context, key string) error {
	obj := g.client.Bucket(g.bucketName).Object(g.objectName(key))
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object from GCS: %w", err)
	}
	return nil
}

// List returns objects under the key prefix.
func (g *GoogleCloudStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	it := g.client.Bucket(g.bucketName).Objects(ctx, &storage.Query{Prefix: g.objectName(prefix)})

	var objects []ObjectInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects from GCS: %w", err)
		}
		objects = append(objects, ObjectInfo{
			Key:         attrs.Name,
			Name:        path.Base(attrs.Name),
			Size:        attrs.Size,
			ContentType: attrs.ContentType,
			ModifiedAt:  attrs.Updated.Unix(),
			Metadata:    attrs.Metadata,
		})
	}
	return objects, nil
}

// SignedURL generates a pre-signed URL for the object.
func (g *GoogleCloudStorage) SignedURL(ctx context.Context, key string, expiryMinutes int, operation string) (string, error) {
	opts := &storage.SignedURLOptions{
		Expires: time.Now().Add(time.Duration(expiryMinutes) * time.Minute),
	}
	switch operation {
	case "write":
		opts.Method = "PUT"
	default:
		opts.Method = "GET"
	}

	url, err := storage.SignedURL(g.bucketName, g.objectName(key), opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url, nil
}
