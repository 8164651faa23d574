package services

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/boxport/boxport-backend/internal/config"
)

// ObjectStorage is the photo store consumed by the item lifecycle. Upload
// returns the public URL of the stored object.
type ObjectStorage interface {
	Upload(key string, body []byte, contentType string) (string, error)
	Remove(keys []string) error
	PublicURL(key string) string
	Bucket() string
}

// S3Storage stores item photos in a single S3 bucket.
type S3Storage struct {
	s3Client *s3.S3
	cfg      *config.Config
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local development: uploads are logged, never stored.
		return &S3Storage{cfg: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Storage{
		s3Client: s3.New(sess),
		cfg:      cfg,
	}, nil
}

func (s *S3Storage) Bucket() string {
	return s.cfg.AWS.PhotoBucket
}

func (s *S3Storage) Upload(key string, body []byte, contentType string) (string, error) {
	if s.s3Client == nil {
		logrus.WithField("key", key).Info("S3 not configured, skipping upload")
		return s.PublicURL(key), nil
	}

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.AWS.PhotoBucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.PublicURL(key), nil
}

func (s *S3Storage) Remove(keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	if s.s3Client == nil {
		logrus.WithField("keys", keys).Info("S3 not configured, skipping delete")
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := s.s3Client.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(s.cfg.AWS.PhotoBucket),
		Delete: &s3.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// PublicURL mirrors the URL layout stored in items.photo_url: the path
// segment after the bucket marker is the object key.
func (s *S3Storage) PublicURL(key string) string {
	if s.cfg.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.cfg.AWS.CloudFrontURL, s.cfg.AWS.PhotoBucket, key)
	}

	return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s",
		s.cfg.AWS.Region, s.cfg.AWS.PhotoBucket, key)
}

// ValidFileSignature checks the magic bytes of an upload so only real images
// reach the photo bucket.
func ValidFileSignature(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	// WebP: RIFF....WEBP
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}
