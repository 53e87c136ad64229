// Package storage issues presigned uploads for film document files kept in
// a MinIO (or any S3 compatible) bucket.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/config"
)

const presignExpiry = 15 * time.Minute

// Presigned is a one-off upload slot. The client PUTs the file to UploadURL
// and then stores FileURL in the document's file_url.
type Presigned struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Object    string    `json:"object"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Uploads signs PUT requests against the documents bucket.
type Uploads struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       logrus.FieldLogger
}

// NewUploads builds the client. No request is made; call EnsureBucket to
// create the bucket.
func NewUploads(cfg config.StorageConfig, log logrus.FieldLogger) (*Uploads, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	public := cfg.PublicURL
	if public == "" {
		scheme := "http://"
		if cfg.UseSSL {
			scheme = "https://"
		}
		public = scheme + endpoint
	}
	return &Uploads{client: client, bucket: cfg.Bucket, publicURL: strings.TrimRight(public, "/"), log: log}, nil
}

// EnsureBucket creates the bucket when missing and makes its objects
// publicly readable so file_url links resolve.
func (u *Uploads) EnsureBucket(ctx context.Context, region string) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		u.log.WithField("bucket", u.bucket).Info("bucket created")
	}

	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, u.bucket)
	if err := u.client.SetBucketPolicy(ctx, u.bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

// Presign returns an upload slot for filename. When contentType is set the
// upload must send the same Content-Type.
func (u *Uploads) Presign(ctx context.Context, filename, contentType string) (Presigned, error) {
	object := ObjectName(filename, uuid.NewString())

	var hdr http.Header
	if contentType != "" {
		hdr = http.Header{"Content-Type": []string{contentType}}
	}
	signed, err := u.client.PresignHeader(ctx, http.MethodPut, u.bucket, object, presignExpiry, nil, hdr)
	if err != nil {
		return Presigned{}, fmt.Errorf("presign %s: %w", object, err)
	}

	u.log.WithFields(logrus.Fields{"object": object, "bucket": u.bucket}).Debug("presigned upload")
	return Presigned{
		UploadURL: signed.String(),
		FileURL:   u.publicURL + "/" + u.bucket + "/" + object,
		Object:    object,
		ExpiresAt: time.Now().UTC().Add(presignExpiry),
	}, nil
}

// ObjectName keeps the base name and extension of filename and appends the
// first eight characters of id: "scan 1.pdf" -> "scan-1_1a2b3c4d.pdf".
func ObjectName(filename, id string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := filepath.Ext(base)
	stem := strings.Join(strings.Fields(strings.TrimSuffix(base, ext)), "-")
	if stem == "" {
		stem = "file"
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s_%s%s", stem, id, strings.ToLower(ext))
}
