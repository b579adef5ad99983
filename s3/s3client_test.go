package s3client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bskqd/sd-solutions-test-task/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParsePublicHost(t *testing.T) {
	t.Run(`http`, func(t *testing.T) {
		endpoint, secure, err := ParsePublicHost("http://127.0.0.1:9000")
		require.Nil(t, err)
		require.Equal(t, "127.0.0.1:9000", endpoint)
		require.False(t, secure)
	})

	t.Run(`https`, func(t *testing.T) {
		endpoint, secure, err := ParsePublicHost("https://files.example.com/")
		require.Nil(t, err)
		require.Equal(t, "files.example.com", endpoint)
		require.True(t, secure)
	})

	t.Run(`without scheme`, func(t *testing.T) {
		endpoint, secure, err := ParsePublicHost("files.example.com:9000")
		require.Nil(t, err)
		require.Equal(t, "files.example.com:9000", endpoint)
		require.False(t, secure)
	})

	t.Run(`invalid`, func(t *testing.T) {
		_, _, err := ParsePublicHost("ftp://files.example.com")
		require.NotNil(t, err)
		_, _, err = ParsePublicHost("http://")
		require.NotNil(t, err)
	})
}

func TestPresignedURL(t *testing.T) {
	t.Run(`link points to public host`, func(t *testing.T) {
		provider, err := NewClient(Options{
			Endpoint:        "minio:9000",
			AccessKeyID:     "access",
			SecretAccessKey: "secret",
			PublicHost:      "https://files.example.com",
			URLExpiry:       time.Hour,
		})
		require.Nil(t, err)
		client := provider.(*s3client)
		link, err := client.presignedURL(context.TODO(), "candidates-info", "abc_1700000000.5.json")
		require.Nil(t, err)

		u, err := url.Parse(link)
		require.Nil(t, err)
		require.Equal(t, "https", u.Scheme)
		require.Equal(t, "files.example.com", u.Host)
		require.Equal(t, "/candidates-info/abc_1700000000.5.json", u.Path)
		require.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
		require.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	})

	t.Run(`without public host`, func(t *testing.T) {
		provider, err := NewClient(Options{
			Endpoint:        "minio:9000",
			AccessKeyID:     "access",
			SecretAccessKey: "secret",
		})
		require.Nil(t, err)
		client := provider.(*s3client)
		require.Equal(t, defaultURLExpiry, client.urlExpiry)
		link, err := client.presignedURL(context.TODO(), "logs", "abc.json")
		require.Nil(t, err)
		u, err := url.Parse(link)
		require.Nil(t, err)
		require.Equal(t, "http", u.Scheme)
		require.Equal(t, "minio:9000", u.Host)
	})
}

const putObjectName = "abc_1700000000.5.json"

// fakeS3 минимальный S3-эндпоинт: отвечает по таблице "METHOD /path" и запоминает запросы
type fakeS3 struct {
	mu        sync.Mutex
	requests  []string
	responses map[string]func(w http.ResponseWriter)
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	key := r.Method + " " + strings.TrimSuffix(r.URL.Path, "/")
	f.mu.Lock()
	f.requests = append(f.requests, key)
	respond, ok := f.responses[key]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	respond(w)
}

func (f *fakeS3) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func s3Error(status int, code string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<Error><Code>`+code+`</Code><Message>`+code+`</Message>`+
			`<BucketName>candidates-info</BucketName><RequestId>1</RequestId></Error>`)
	}
}

func newFakeS3Client(t *testing.T, fake *fakeS3) Provider {
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	provider, err := NewClient(Options{
		Endpoint:        strings.TrimPrefix(server.URL, "http://"),
		AccessKeyID:     "access",
		SecretAccessKey: "secret",
		MaxRetries:      1,
	})
	require.Nil(t, err)
	return provider
}

func TestPut(t *testing.T) {
	bucketMissing := func(w http.ResponseWriter) { w.WriteHeader(http.StatusNotFound) }

	t.Run(`creates bucket on first use`, func(t *testing.T) {
		fake := &fakeS3{responses: map[string]func(w http.ResponseWriter){
			"HEAD /candidates-info": bucketMissing,
		}}
		client := newFakeS3Client(t, fake)

		link, err := client.Put(context.TODO(), "candidates-info", putObjectName, []byte(`{}`), "application/json")
		require.Nil(t, err)
		require.Contains(t, link, "/candidates-info/"+putObjectName)
		require.Equal(t, []string{
			"HEAD /candidates-info",
			"PUT /candidates-info",
			"PUT /candidates-info/" + putObjectName,
		}, fake.Requests())
	})

	t.Run(`existing bucket is not recreated`, func(t *testing.T) {
		fake := &fakeS3{}
		client := newFakeS3Client(t, fake)

		_, err := client.Put(context.TODO(), "candidates-info", putObjectName, []byte(`{}`), "application/json")
		require.Nil(t, err)
		require.Equal(t, []string{
			"HEAD /candidates-info",
			"PUT /candidates-info/" + putObjectName,
		}, fake.Requests())
	})

	t.Run(`bucket created concurrently`, func(t *testing.T) {
		for _, code := range []string{"BucketAlreadyOwnedByYou", "BucketAlreadyExists"} {
			fake := &fakeS3{responses: map[string]func(w http.ResponseWriter){
				"HEAD /candidates-info": bucketMissing,
				"PUT /candidates-info":  s3Error(http.StatusConflict, code),
			}}
			client := newFakeS3Client(t, fake)

			_, err := client.Put(context.TODO(), "candidates-info", putObjectName, []byte(`{}`), "application/json")
			require.Nil(t, err, code)
			require.Equal(t, "PUT /candidates-info/"+putObjectName, fake.Requests()[2], code)
		}
	})

	t.Run(`bucket creation denied`, func(t *testing.T) {
		fake := &fakeS3{responses: map[string]func(w http.ResponseWriter){
			"HEAD /candidates-info": bucketMissing,
			"PUT /candidates-info":  s3Error(http.StatusForbidden, "AccessDenied"),
		}}
		client := newFakeS3Client(t, fake)

		_, err := client.Put(context.TODO(), "candidates-info", putObjectName, []byte(`{}`), "application/json")
		var archiveErr *models.ArchiveUnavailableError
		require.True(t, errors.As(err, &archiveErr))
		require.Equal(t, "candidates-info", archiveErr.Bucket)
		require.Len(t, fake.Requests(), 2)
	})

	t.Run(`object write failure`, func(t *testing.T) {
		fake := &fakeS3{responses: map[string]func(w http.ResponseWriter){
			"PUT /candidates-info/" + putObjectName: s3Error(http.StatusInternalServerError, "InternalError"),
		}}
		client := newFakeS3Client(t, fake)

		link, err := client.Put(context.TODO(), "candidates-info", putObjectName, []byte(`{}`), "application/json")
		require.Equal(t, "", link)
		var archiveErr *models.ArchiveUnavailableError
		require.True(t, errors.As(err, &archiveErr))
		require.Equal(t, "candidates-info", archiveErr.Bucket)
	})
}
