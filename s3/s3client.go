package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"interview-prep-backend/config"
)

var Client *minio.Client

// NewClient клиент S3 по настройкам из конфигурации
func NewClient() (*minio.Client, error) {
	return minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
}

// Ping проверка соединения
func Ping(ctx context.Context, client *minio.Client) error {
	_, err := client.ListBuckets(ctx)
	return err
}
