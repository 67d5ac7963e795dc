package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// AmazonS3Storage stores assets in an Amazon S3 bucket.
type AmazonS3Storage struct {
	bucket   string
	prefix   string
	s3Client *s3.S3
	uploader *s3manager.Uploader
}

// NewAmazonS3Storage creates an uninitialized S3 provider.
func NewAmazonS3Storage() *AmazonS3Storage {
	return &AmazonS3Storage{}
}

// Initialize creates the AWS session and S3 client. The "region" and
// "bucket" entries are required; static credentials fall back to the
// environment or instance profile when absent.
func (a *AmazonS3Storage) Initialize(config map[string]string) error {
	region, ok := config["region"]
	if !ok || region == "" {
		return fmt.Errorf("region is required for Amazon S3 storage")
	}
	bucket, ok := config["bucket"]
	if !ok || bucket == "" {
		return fmt.Errorf("bucket is required for Amazon S3 storage")
	}
	a.bucket = bucket

	if prefix, ok := config["prefix"]; ok {
		a.prefix = prefix
	}

	var sess *session.Session
	var err error
	accessKey, hasAccessKey := config["accessKey"]
	secretKey, hasSecretKey := config["secretKey"]
	if hasAccessKey && hasSecretKey {
		sess, err = session.NewSession(&aws.Config{
			Region:      aws.String(region),
			Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
		})
	} else {
		sess, err = session.NewSession(&aws.Config{
			Region: aws.String(region),
		})
	}
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}

	a.s3Client = s3.New(sess)
	a.uploader = s3manager.NewUploader(sess)
	return nil
}

func (a *AmazonS3Storage) objectKey(key string) string {
	if a.prefix == "" {
		return key
	}
	return a.prefix + key
}

// Store uploads the object under the key.
func (a *AmazonS3Storage) Store(ctx context.Context, key string, content io.Reader, size int64, metadata map[string]string) error {
	s3Metadata := make(map[string]*string)
	for k, v := range metadata {
		s3Metadata[k] = aws.String(v)
	}

	_, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:   aws.String(a.bucket),
		Key:      aws.String(a.objectKey(key)),
		Body:     content,
		Metadata: s3Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}
	return nil
}

// Retrieve opens the object under the key.
func (a *AmazonS3Storage) Retrieve(ctx context.Context, key string) (io.ReadCloser, map[string]string, error) {
	output, err := a.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.objectKey(key)),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve object from S3: %w", err)
	}

	metadata := make(map[string]string)
	for k, v := range output.Metadata {
		if v != nil {
			metadata[k] = *v
		}
	}
	return output.Body, metadata, nil
}

// Delete removes the object under the key.
func (a *AmazonS3Storage) Delete(ctx context.Context, key string) error {
	_, err := a.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// List returns objects under the key prefix.
func (a *AmazonS3Storage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(a.objectKey(prefix)),
	}

	var objects []ObjectInfo
	err := a.s3Client.ListObjectsV2PagesWithContext(ctx, input, func(output *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range output.Contents {
			objOutput, err := a.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(a.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				continue
			}

			metadata := make(map[string]string)
			for k, v := range objOutput.Metadata {
				if v != nil {
					metadata[k] = *v
				}
			}
			contentType := ""
			if objOutput.ContentType != nil {
				contentType = *objOutput.ContentType
			}
			objects = append(objects, ObjectInfo{
				Key:         *obj.Key,
				Name:        path.Base(*obj.Key),
				Size:        *obj.Size,
				ContentType: contentType,
				ModifiedAt:  obj.LastModified.Unix(),
				Metadata:    metadata,
			})
		}
		return !lastPage
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects from S3: %w", err)
	}
	return objects, nil
}

// SignedURL generates a pre-signed URL for the object.
func (a *AmazonS3Storage) SignedURL(ctx context.Context, key string, expiryMinutes int, operation string) (string, error) {
	req, _ := a.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.objectKey(key)),
	})
	url, err := req.Presign(time.Duration(expiryMinutes) * time.Minute)
	if err != nil {
		return "", fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}
	return url, nil
}
