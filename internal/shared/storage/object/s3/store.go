// Package s3 implements object.Store on AWS S3.
package s3

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/teijeiro7/fitmycv/internal/shared/util"
)

type Store struct {
	client *awss3.Client
	bucket string
	prefix string
}

// New loads AWS config from the environment and returns an S3-backed store.
func New(ctx context.Context, region, bucket, prefix string) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if strings.TrimSpace(region) != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Store{
		client: awss3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}, nil
}

func (s *Store) Save(ctx context.Context, name string, r io.Reader) (string, string, int64, error) {
	key := randomID() + "-" + objectName(name)
	mime, size, err := s.SaveWithKey(ctx, key, r)
	if err != nil {
		return "", "", 0, err
	}
	return key, mime, size, nil
}

func (s *Store) SaveWithKey(ctx context.Context, key string, r io.Reader) (string, int64, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", 0, fmt.Errorf("empty object key")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", 0, fmt.Errorf("read object: %w", err)
	}
	head = head[:n]
	mime := http.DetectContentType(head)

	counting := &countingReader{r: io.MultiReader(bytes.NewReader(head), r)}
	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:               &s.bucket,
		Key:                  strPtr(s.applyPrefix(key)),
		Body:                 counting,
		ContentType:          &mime,
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", 0, fmt.Errorf("put object: %w", err)
	}
	return mime, counting.n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("empty object key")
	}
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    strPtr(s.applyPrefix(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	return out.Body, nil
}

func (s *Store) applyPrefix(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + key
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func strPtr(s string) *string { return &s }

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// objectName keeps keys short for long upload names, mirroring the local store.
func objectName(name string) string {
	clean := util.SanitizeFilename(name)
	if len(clean) > 64 {
		clean = util.ShortHash(clean, 16) + strings.ToLower(path.Ext(clean))
	}
	return clean
}

func randomID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(buf)
}
