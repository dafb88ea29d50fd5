package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

const publicBase = "https://abc.supabase.co/storage/v1/object/public"

func TestS3Store_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores under folder with random name", func(t *testing.T) {
		client := &MockObjectAPI{}
		client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			key := aws.ToString(in.Key)
			return aws.ToString(in.Bucket) == "projects" &&
				strings.HasPrefix(key, "images/") &&
				strings.HasSuffix(key, ".png") &&
				aws.ToString(in.ContentType) == "image/png"
		})).Return(&s3.PutObjectOutput{}, nil)

		store := newS3Store(client, publicBase+"/")
		url, err := store.Upload(ctx, pngBytes, "projects", "images", "Screen Shot.PNG")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, publicBase+"/projects/images/"))
		client.AssertExpectations(t)
	})

	t.Run("extension from content when file name has none", func(t *testing.T) {
		client := &MockObjectAPI{}
		client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return strings.HasSuffix(aws.ToString(in.Key), ".png")
		})).Return(&s3.PutObjectOutput{}, nil)

		store := newS3Store(client, publicBase)
		_, err := store.Upload(ctx, pngBytes, "projects", "screenshots", "blob")
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("empty upload", func(t *testing.T) {
		store := newS3Store(&MockObjectAPI{}, publicBase)
		_, err := store.Upload(ctx, nil, "projects", "images", "a.png")
		assert.Error(t, err)
	})

	t.Run("client failure", func(t *testing.T) {
		client := &MockObjectAPI{}
		client.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("access denied"))

		store := newS3Store(client, publicBase)
		_, err := store.Upload(ctx, pngBytes, "projects", "images", "a.png")
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestS3Store_Delete(t *testing.T) {
	ctx := context.Background()
	client := &MockObjectAPI{}
	client.On("DeleteObject", ctx, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Bucket) == "projects" && aws.ToString(in.Key) == "images/a.png"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	store := newS3Store(client, publicBase)
	require.NoError(t, store.Delete(ctx, publicBase+"/projects/images/a.png", "projects"))
	client.AssertExpectations(t)

	assert.Error(t, store.Delete(ctx, "https://elsewhere.dev/other/a.png", "projects"))
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"supabase public url", publicBase + "/projects/images/x.png", "images/x.png", false},
		{"nested folder", "https://cdn.dev/projects/a/b/c.jpg", "a/b/c.jpg", false},
		{"bucket is last segment", "https://cdn.dev/projects", "", true},
		{"other bucket", "https://cdn.dev/avatars/x.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectKey(tt.url, "projects")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage(pngBytes, "a.png"))
	assert.False(t, IsImage([]byte("just some text"), "notes.txt"))
}
