package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
)

const s3Scheme = "s3://"

// objectGetter é o subconjunto do cliente S3 usado para baixar o dataset.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Source abre datasets armazenados no S3, criando o cliente sob demanda.
type s3Source struct {
	awsCfg    types.AWSConfig
	newClient func(ctx context.Context, awsCfg types.AWSConfig) (objectGetter, error)

	mu     sync.Mutex
	client objectGetter
}

func newS3Source(awsCfg types.AWSConfig) *s3Source {
	return &s3Source{awsCfg: awsCfg, newClient: newS3Client}
}

func newS3Client(ctx context.Context, awsCfg types.AWSConfig) (objectGetter, error) {
	var opts []func(*config.LoadOptions) error
	if awsCfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(awsCfg.Profile))
	}
	if awsCfg.Region != "" {
		opts = append(opts, config.WithRegion(awsCfg.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %s: %w", awsCfg.Profile, err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (s *s3Source) getClient(ctx context.Context) (objectGetter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	client, err := s.newClient(ctx, s.awsCfg)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// open baixa o objeto apontado pela URI s3://bucket/key.
func (s *s3Source) open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error downloading dataset %s: %w", uri, err)
	}
	return out.Body, nil
}

func parseS3URI(uri string) (string, string, error) {
	rest := strings.TrimPrefix(uri, s3Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q is not of the form s3://bucket/key", types.ErrUnsupportedSource, uri)
	}
	return bucket, key, nil
}
