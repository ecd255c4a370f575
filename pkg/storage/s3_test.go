package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoragePrefixesKeys(t *testing.T) {
	client := newFakeS3()
	store := newS3Storage(client, "dorm", "/residents/")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "DEPARTURE/S2024_2/r-9.pdf", []byte("%PDF")))
	assert.Contains(t, client.objects, "residents/DEPARTURE/S2024_2/r-9.pdf")
	assert.Equal(t, "application/pdf", client.types["residents/DEPARTURE/S2024_2/r-9.pdf"])

	data, err := store.Read(ctx, "DEPARTURE/S2024_2/r-9.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	require.NoError(t, store.Delete(ctx, "DEPARTURE/S2024_2/r-9.pdf"))
	_, err = store.Read(ctx, "DEPARTURE/S2024_2/r-9.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), S3Options{Region: "ap-northeast-2"})
	assert.Error(t, err)
}
