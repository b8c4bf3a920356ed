package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/db"
	voicerecordstore "interview-prep-backend/lib/file-storage/voice-store"
	dbmodels "interview-prep-backend/models/db"
)

// VoiceUpload аудио реплики для сохранения
type VoiceUpload struct {
	SessionType dbmodels.SessionType
	SessionID   string
	UserID      *string
	Speaker     dbmodels.Speaker
	FileName    string
	ContentType string
	Data        []byte
}

type Provider interface {
	SaveVoice(ctx context.Context, upload VoiceUpload) (objectKey string, err error)
	GetVoice(ctx context.Context, objectKey string) ([]byte, error)
	MakeBucket(ctx context.Context) error
}

var Instance Provider

type objectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type impl struct {
	s3client   objectClient
	bucketName string
	store      voicerecordstore.Provider
}

// NewHandler без клиента S3 архив аудио отключен
func NewHandler(s3client *minio.Client, bucketName string) {
	if s3client == nil {
		Instance = disabled{}
		return
	}
	Instance = &impl{
		s3client:   s3client,
		bucketName: bucketName,
		store:      voicerecordstore.NewInstance(db.DB),
	}
}

func (i impl) SaveVoice(ctx context.Context, upload VoiceUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", errors.New("пустой аудио файл")
	}
	objectKey := objectKeyFor(upload)
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.bucketName, objectKey, bytes.NewReader(upload.Data), int64(len(upload.Data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения аудио в S3")
	}
	_, err = i.store.Save(dbmodels.VoiceRecord{
		SessionType: upload.SessionType,
		SessionID:   upload.SessionID,
		UserID:      upload.UserID,
		Speaker:     upload.Speaker,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        int64(len(upload.Data)),
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения информации об аудио")
	}
	return objectKey, nil
}

func (i impl) GetVoice(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := i.s3client.GetObject(ctx, i.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения аудио из S3")
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения аудио из S3")
	}
	return data, nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	log.WithField("bucket", i.bucketName).Info("Создан bucket для аудио")
	return nil
}

// objectKeyFor collector/<session>/<speaker>-<uuid>.<ext>
func objectKeyFor(upload VoiceUpload) string {
	ext := strings.TrimPrefix(path.Ext(upload.FileName), ".")
	if ext == "" {
		ext = extByContentType(upload.ContentType)
	}
	return fmt.Sprintf("%s/%s/%s-%s.%s", upload.SessionType, upload.SessionID, upload.Speaker, uuid.NewString(), ext)
}

func extByContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "audio/"):
		ext := strings.TrimPrefix(contentType, "audio/")
		if idx := strings.Index(ext, ";"); idx != -1 {
			ext = ext[:idx]
		}
		if ext == "mpeg" {
			return "mp3"
		}
		return ext
	default:
		return "bin"
	}
}

type disabled struct{}

func (disabled) SaveVoice(ctx context.Context, upload VoiceUpload) (string, error) {
	return "", nil
}

func (disabled) GetVoice(ctx context.Context, objectKey string) ([]byte, error) {
	return nil, errors.New("хранилище аудио отключено")
}

func (disabled) MakeBucket(ctx context.Context) error {
	return nil
}
