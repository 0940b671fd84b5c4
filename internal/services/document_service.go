package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentService stores scanned delivery notes against receiving records and
// hands out presigned download links.
type DocumentService interface {
	AttachReceivingDocument(ctx context.Context, recordID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error)
	GetDocumentURL(ctx context.Context, recordID uuid.UUID, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

type documentService struct {
	client        *minio.Client
	bucket        string
	receivingRepo repositories.ReceivingRepository
}

func NewDocumentService(endpoint, accessKey, secretKey, bucket string, useSSL bool,
	receivingRepo repositories.ReceivingRepository) (DocumentService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &documentService{client: client, bucket: bucket, receivingRepo: receivingRepo}, nil
}

// AttachReceivingDocument uploads the document and links its object key to
// the receiving record. Re-attaching replaces the link; the old object is
// left in place.
func (d *documentService) AttachReceivingDocument(ctx context.Context, recordID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if _, err := d.receivingRepo.GetByID(ctx, recordID); err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return "", fmt.Errorf("%w: receiving record %s", ErrNotFound, recordID)
		}
		return "", fmt.Errorf("load receiving record: %w", err)
	}

	key := fmt.Sprintf("receiving/%s/%s", recordID, filename)
	_, err := d.client.PutObject(ctx, d.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}

	if err := d.receivingRepo.SetDocumentKey(ctx, recordID, key); err != nil {
		return "", fmt.Errorf("link document to receiving record: %w", err)
	}
	return key, nil
}

func (d *documentService) GetDocumentURL(ctx context.Context, recordID uuid.UUID, expiry time.Duration) (string, error) {
	record, err := d.receivingRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return "", fmt.Errorf("%w: receiving record %s", ErrNotFound, recordID)
		}
		return "", fmt.Errorf("load receiving record: %w", err)
	}
	if record.DocumentKey == nil {
		return "", fmt.Errorf("%w: receiving record %s has no document", ErrNotFound, recordID)
	}

	url, err := d.client.PresignedGetObject(ctx, d.bucket, *record.DocumentKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign document url: %w", err)
	}
	return url.String(), nil
}

func (d *documentService) EnsureBucketExists(ctx context.Context) error {
	found, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return err
	}
	if !found {
		return d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
