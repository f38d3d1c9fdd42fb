package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-mepflow/pkg/metrics"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestUploader_Key(t *testing.T) {
	assert.Equal(t, "flow.csv", NewUploader(nil, "b", "", nil, nil).Key("/tmp/out/flow.csv"))
	assert.Equal(t, "mep/2026/flow.csv", NewUploader(nil, "b", "/mep/2026/", nil, nil).Key("flow.csv"))
}

func TestUploader_Upload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.csv.sz")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0644))

	putter := &fakePutter{}
	reg := metrics.NewRegistry()
	u := NewUploader(putter, "exports", "mep", nil, reg)

	location, err := u.Upload(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "s3://exports/mep/flow.csv.sz", location)
	assert.Equal(t, "exports", putter.bucket)
	assert.Equal(t, "mep/flow.csv.sz", putter.key)
	assert.Equal(t, "application/x-snappy-framed", putter.contentType)
	assert.Equal(t, []byte("payload"), putter.body)
}

func TestUploader_Errors(t *testing.T) {
	u := NewUploader(&fakePutter{err: errors.New("access denied")}, "exports", "", nil, nil)

	path := filepath.Join(t.TempDir(), "flow.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := u.Upload(context.Background(), path)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "access denied")

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrUploadFailed)
}
