package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"
	"interview-prep-backend/config"
	filestorage "interview-prep-backend/lib/file-storage"
	s3client "interview-prep-backend/s3"
)

func InitS3(ctx context.Context) {
	if !*config.Conf.S3.Enabled {
		log.Info("S3 отключен, аудио не архивируется")
		filestorage.NewHandler(nil, "")
		return
	}
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		filestorage.NewHandler(nil, "")
		return
	}

	// Проверка соединения
	if err = s3client.Ping(ctx, minioClient); err != nil {
		log.WithError(err).Error("S3 соединение не удалось, ListBuckets вернул ошибку")
	}

	s3client.Client = minioClient
	filestorage.NewHandler(minioClient, config.Conf.S3.BucketName)
	if err = filestorage.Instance.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("Ошибка создания bucket для аудио")
	}
	log.Info("S3 клиент успешно инициализирован")
}
