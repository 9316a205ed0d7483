package file_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/file"
)

// MockS3Client is a mock implementation of the S3Client interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func newS3Storage(t *testing.T, client file.S3Client, prefix string) *file.S3Storage {
	t.Helper()
	s, err := file.NewS3Storage(context.Background(), file.S3Config{
		Bucket: "queues",
		Region: "us-east-1",
		Prefix: prefix,
	}, file.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func TestNewS3StorageInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{Bucket: "b"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	_, err = file.NewS3Storage(context.Background(), file.S3Config{Region: "r"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
}

func TestS3StorageLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("existing object", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Bucket == "queues" && *in.Key == "devices/1/uploads.json"
		}), mock.Anything).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(bytes.NewReader([]byte(`[]`))),
		}, nil)

		blob, err := newS3Storage(t, client, "/devices/1/").Load(ctx, "uploads")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(blob))
		client.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &types.NoSuchKey{})

		blob, err := newS3Storage(t, client, "").Load(ctx, "uploads")
		require.NoError(t, err)
		assert.Nil(t, blob)
	})

	t.Run("missing object as generic api error", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "NoSuchKey"})

		blob, err := newS3Storage(t, client, "").Load(ctx, "uploads")
		require.NoError(t, err)
		assert.Nil(t, blob)
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()
		_, err := newS3Storage(t, &MockS3Client{}, "").Load(ctx, "../x")
		assert.ErrorIs(t, err, file.ErrInvalidName)
	})
}

func TestS3StorageSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &MockS3Client{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Bucket == "queues" &&
			*in.Key == "uploads.json" &&
			*in.ContentType == "application/json" &&
			*in.ContentLength == 2 &&
			string(body) == `[]`
	}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	require.NoError(t, newS3Storage(t, client, "").Save(ctx, "uploads", []byte(`[]`)))
	client.AssertExpectations(t)
}

func TestS3StorageErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, file.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, file.ErrServiceUnavailable},
		{"unavailable", &smithy.GenericAPIError{Code: "ServiceUnavailable"}, file.ErrServiceUnavailable},
		{"request timeout", &smithy.GenericAPIError{Code: "RequestTimeout"}, file.ErrRequestTimeout},
		{"no bucket", &types.NoSuchBucket{}, file.ErrBucketNotFound},
		{"deadline", context.DeadlineExceeded, file.ErrOperationTimeout},
		{"canceled", context.Canceled, file.ErrOperationCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &MockS3Client{}
			client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			err := newS3Storage(t, client, "").Save(context.Background(), "q", nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown error is wrapped", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("boom")
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

		_, err := newS3Storage(t, client, "").Load(context.Background(), "q")
		assert.ErrorIs(t, err, cause)
	})
}
