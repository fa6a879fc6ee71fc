package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
}

func newTestService(t *testing.T, handler http.HandlerFunc) *S3Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  aws.AnonymousCredentials{},
	})
	return NewS3Service(client)
}

func TestS3Service_PutObject(t *testing.T) {
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	loc, err := svc.PutObject(context.Background(), "archive", "/u1/research/a.md", strings.NewReader("# Acme"), "text/markdown")
	require.NoError(t, err)
	assert.Equal(t, "s3://archive/u1/research/a.md", loc)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/archive/u1/research/a.md", reqs[0].path)
	assert.Contains(t, reqs[0].body, "# Acme")
}

func TestS3Service_ListObjects(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1/", r.URL.Query().Get("prefix"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>archive</Name>
  <Prefix>u1/</Prefix>
  <KeyCount>1</KeyCount>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>u1/research/a.md</Key>
    <LastModified>2024-05-01T10:00:00.000Z</LastModified>
    <Size>42</Size>
  </Contents>
</ListBucketResult>`))
	})

	objects, err := svc.ListObjects(context.Background(), "archive", "u1/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "u1/research/a.md", objects[0].Key)
	assert.Equal(t, int64(42), objects[0].Size)
	require.NotNil(t, objects[0].LastModified)
	assert.True(t, objects[0].LastModified.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestS3Service_RequiresBucket(t *testing.T) {
	svc := NewS3Service(s3.New(s3.Options{Region: "us-east-1"}))
	ctx := context.Background()

	_, err := svc.PutObject(ctx, "", "k", strings.NewReader(""), "")
	require.Error(t, err)
	_, err = svc.ListObjects(ctx, "", "")
	require.Error(t, err)
	require.Error(t, svc.DeletePrefix(ctx, "", "p"))
	require.Error(t, svc.DeletePrefix(ctx, "b", " "))
	_, err = svc.GetObjectURL(ctx, "", "k", time.Minute)
	require.Error(t, err)
}
