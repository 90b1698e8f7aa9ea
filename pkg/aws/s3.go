package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignedUpload is what a client needs to PUT an object directly to S3.
type PresignedUpload struct {
	URL       string            `json:"upload_url"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ImagePresigner issues presigned PUT URLs for a single bucket.
type ImagePresigner struct {
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
}

// NewImagePresigner builds a presigner for bucket. Path-style addressing is
// forced when cfg carries a custom endpoint.
func NewImagePresigner(cfg sdkaws.Config, bucket string, expiry time.Duration) *ImagePresigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = HasCustomEndpoint(cfg)
	})
	return &ImagePresigner{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		expiry:    expiry,
	}
}

// PresignPut generates a presigned PUT URL for key.
func (p *ImagePresigner) PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket:      sdkaws.String(p.bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}

	presigned, err := p.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = p.expiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string, len(presigned.SignedHeader))
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &PresignedUpload{
		URL:       presigned.URL,
		Key:       key,
		Headers:   headers,
		ExpiresAt: time.Now().Add(p.expiry),
	}, nil
}
