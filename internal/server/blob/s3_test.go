package blob

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *Store {
	return NewStore(Config{
		AccessKey: "admin",
		SecretKey: "secret",
		Bucket:    "designs",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000/",
	})
}

func stubPresign(t *testing.T, putURL, getURL string) {
	t.Helper()

	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		presignPutObject = origPut
		presignGetObject = origGet
	})

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: putURL + "/" + aws.ToString(in.Key)}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: getURL + "/" + aws.ToString(in.Key)}, nil
	}
}

func TestPresignPut_KeyLayoutAndURL(t *testing.T) {
	stubPresign(t, "https://s3/put", "https://s3/get")
	s := testStore()

	key, url, err := s.PresignPut(context.Background(), "alice")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "renders/alice/"), "key=%s", key)
	assert.Equal(t, "https://s3/put/"+key, url)

	// keys are unique per call
	key2, _, err := s.PresignPut(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
}

func TestPresignGet_URL(t *testing.T) {
	stubPresign(t, "https://s3/put", "https://s3/get")
	s := testStore()

	url, err := s.PresignGet(context.Background(), "renders/alice/k1")
	require.NoError(t, err)
	assert.Equal(t, "https://s3/get/renders/alice/k1", url)
}

func TestPresignPut_PropagatesError(t *testing.T) {
	orig := presignPutObject
	t.Cleanup(func() { presignPutObject = orig })

	boom := errors.New("presign failed")
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, boom
	}

	_, _, err := testStore().PresignPut(context.Background(), "alice")
	require.ErrorIs(t, err, boom)
}
