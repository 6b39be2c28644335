// Package files stores submission attachments.
package files

import (
	"context"
	"io"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

// B2Store uploads attachments to a Backblaze B2 bucket.
type B2Store struct {
	client *b2.Client
	bucket *b2.Bucket
}

var _ submission.FileStore = (*B2Store)(nil)

func NewB2Store(ctx context.Context, conf *core.Config) (*B2Store, error) {
	client, err := b2.NewClient(ctx, conf.B2.KeyID, conf.B2.AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, conf.B2.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "opening bucket %s", conf.B2.Bucket)
	}
	return &B2Store{client: client, bucket: bucket}, nil
}

func (s *B2Store) Upload(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	obj := s.bucket.Object(key)
	w := obj.NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrapf(err, "writing %s", key)
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "closing %s", key)
	}
	return obj.URL(), nil
}
