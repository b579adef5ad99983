package s3client

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/bskqd/sd-solutions-test-task/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const (
	defaultRegion    = "us-east-1"
	defaultURLExpiry = 7 * 24 * time.Hour
)

// Provider клиент постоянного хранилища
type Provider interface {
	// Put создает бакет при необходимости, сохраняет объект и возвращает внешнюю ссылку на него
	Put(ctx context.Context, bucket, objectName string, data []byte, contentType string) (publicURL string, err error)
	Get(ctx context.Context, bucket, objectName string) ([]byte, error)
	List(ctx context.Context, bucket string) ([]string, error)
	Ping(ctx context.Context) error
}

type Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
	// PublicHost адрес, по которому хранилище доступно снаружи (например http://files.example.com)
	PublicHost string
	URLExpiry  time.Duration
	// MaxRetries число попыток запроса к S3, 0 оставляет значение minio по умолчанию
	MaxRetries int
}

type s3client struct {
	minioClient   *minio.Client
	presignClient *minio.Client
	region        string
	urlExpiry     time.Duration
}

func NewClient(opts Options) (Provider, error) {
	if opts.Region == "" {
		opts.Region = defaultRegion
	}
	if opts.URLExpiry <= 0 || opts.URLExpiry > defaultURLExpiry {
		opts.URLExpiry = defaultURLExpiry
	}
	creds := credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, "")
	minioClient, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:      creds,
		Secure:     opts.UseSSL,
		Region:     opts.Region,
		MaxRetries: opts.MaxRetries,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка инициализации клиента S3")
	}
	presignClient := minioClient
	if opts.PublicHost != "" {
		endpoint, secure, err := ParsePublicHost(opts.PublicHost)
		if err != nil {
			return nil, err
		}
		// ссылка подписывается сразу для внешнего адреса, иначе подпись не сойдется
		presignClient, err = minio.New(endpoint, &minio.Options{
			Creds:  creds,
			Secure: secure,
			Region: opts.Region,
		})
		if err != nil {
			return nil, errors.Wrap(err, "ошибка инициализации клиента S3 для внешних ссылок")
		}
	}
	return &s3client{
		minioClient:   minioClient,
		presignClient: presignClient,
		region:        opts.Region,
		urlExpiry:     opts.URLExpiry,
	}, nil
}

func (s s3client) MakeBucket(ctx context.Context, bucketName string) error {
	exists, err := s.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: s.region})
	if err != nil {
		// бакет мог создать параллельный запрос
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return err
	}
	return nil
}

func (s s3client) Put(ctx context.Context, bucket, objectName string, data []byte, contentType string) (publicURL string, err error) {
	if err = s.MakeBucket(ctx, bucket); err != nil {
		return "", &models.ArchiveUnavailableError{Bucket: bucket, Err: errors.Wrap(err, "ошибка создания бакета")}
	}
	_, err = s.minioClient.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", &models.ArchiveUnavailableError{Bucket: bucket, Err: errors.Wrap(err, "ошибка сохранения объекта")}
	}
	link, err := s.presignedURL(ctx, bucket, objectName)
	if err != nil {
		return "", &models.ArchiveUnavailableError{Bucket: bucket, Err: err}
	}
	return link, nil
}

func (s s3client) presignedURL(ctx context.Context, bucket, objectName string) (string, error) {
	link, err := s.presignClient.PresignedGetObject(ctx, bucket, objectName, s.urlExpiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "ошибка формирования ссылки на объект")
	}
	return link.String(), nil
}

func (s s3client) Get(ctx context.Context, bucket, objectName string) ([]byte, error) {
	object, err := s.minioClient.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.convertReadError(bucket, err)
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, s.convertReadError(bucket, err)
	}
	return data, nil
}

func (s s3client) List(ctx context.Context, bucket string) ([]string, error) {
	names := []string{}
	for obj := range s.minioClient.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			if minio.ToErrorResponse(obj.Err).Code == "NoSuchBucket" {
				return names, nil
			}
			return nil, &models.ArchiveUnavailableError{Bucket: bucket, Err: obj.Err}
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

func (s s3client) Ping(ctx context.Context) error {
	if _, err := s.minioClient.ListBuckets(ctx); err != nil {
		return &models.ArchiveUnavailableError{Err: err}
	}
	return nil
}

func (s s3client) convertReadError(bucket string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return models.ErrNotFound
	}
	return &models.ArchiveUnavailableError{Bucket: bucket, Err: err}
}

// ParsePublicHost разбирает адрес вида http(s)://host:port в endpoint для minio
func ParsePublicHost(publicHost string) (endpoint string, secure bool, err error) {
	if !strings.Contains(publicHost, "://") {
		return strings.TrimRight(publicHost, "/"), false, nil
	}
	u, err := url.Parse(publicHost)
	if err != nil {
		return "", false, errors.Wrapf(err, "некорректный адрес хранилища: %s", publicHost)
	}
	if u.Host == "" {
		return "", false, errors.Errorf("некорректный адрес хранилища: %s", publicHost)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, errors.Errorf("неподдерживаемая схема адреса хранилища: %s", u.Scheme)
	}
}
