package storage

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	headErr      error
	createCalled bool
	deletedKey   string
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) CreateBucket(context.Context, *s3.CreateBucketInput, ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createCalled = true
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletedKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func newOfflineS3Provider(fake *fakeS3) *S3Provider {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
		BaseEndpoint: aws.String("http://minio.local:9000"),
		UsePathStyle: true,
	})
	return &S3Provider{client: fake, bucket: "lms-media", psClient: s3.NewPresignClient(client)}
}

func TestS3Provider_PresignedURLs(t *testing.T) {
	provider := newOfflineS3Provider(&fakeS3{})
	ctx := context.Background()

	putURL, err := provider.GeneratePresignedPutURL(ctx, "media/u-1/m-1/intro.mp4", "video/mp4", 15*time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(putURL)
	require.NoError(t, err)
	assert.Equal(t, "/lms-media/media/u-1/m-1/intro.mp4", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))

	getURL, err := provider.GeneratePresignedGetURL(ctx, "media/u-1/m-1/intro.mp4", time.Minute)
	require.NoError(t, err)
	u, err = url.Parse(getURL)
	require.NoError(t, err)
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
}

func TestCreateBucketIfNotExists(t *testing.T) {
	existing := &fakeS3{}
	require.NoError(t, createBucketIfNotExists(context.Background(), existing, "lms-media"))
	assert.False(t, existing.createCalled)

	missing := &fakeS3{headErr: errors.New("not found")}
	require.NoError(t, createBucketIfNotExists(context.Background(), missing, "lms-media"))
	assert.True(t, missing.createCalled)
}

func TestS3Provider_DeleteObject(t *testing.T) {
	fake := &fakeS3{}
	provider := newOfflineS3Provider(fake)

	require.NoError(t, provider.DeleteObject(context.Background(), "media/x"))
	assert.Equal(t, "media/x", fake.deletedKey)
}
