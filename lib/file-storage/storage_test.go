package filestorage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	dbmodels "interview-prep-backend/models/db"
)

type s3Mock struct {
	mock.Mock
}

func (m *s3Mock) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(bucketName, objectName, objectSize, opts.ContentType)
	return minio.UploadInfo{Key: objectName}, args.Error(0)
}

func (m *s3Mock) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(bucketName, objectName)
	return nil, args.Error(0)
}

func (m *s3Mock) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *s3Mock) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(bucketName)
	return args.Error(0)
}

type voiceStoreMock struct {
	mock.Mock
}

func (m *voiceStoreMock) Save(rec dbmodels.VoiceRecord) (string, error) {
	args := m.Called(rec)
	return args.String(0), args.Error(1)
}

func TestSaveVoice(t *testing.T) {
	t.Run(`object is uploaded and recorded`, func(t *testing.T) {
		s3 := &s3Mock{}
		s3.On("PutObject", "voice", mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "interview/s1/user-") && strings.HasSuffix(key, ".webm")
		}), int64(3), "audio/webm").Return(nil)
		store := &voiceStoreMock{}
		store.On("Save", mock.MatchedBy(func(rec dbmodels.VoiceRecord) bool {
			return rec.SessionID == "s1" && rec.Speaker == dbmodels.SpeakerUser && rec.Size == 3
		})).Return("v1", nil)

		i := impl{s3client: s3, bucketName: "voice", store: store}
		key, err := i.SaveVoice(context.Background(), VoiceUpload{
			SessionType: dbmodels.SessionTypeInterview,
			SessionID:   "s1",
			Speaker:     dbmodels.SpeakerUser,
			FileName:    "voice_input.webm",
			ContentType: "audio/webm",
			Data:        []byte{1, 2, 3},
		})
		require.NoError(t, err)
		require.NotEmpty(t, key)
		s3.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run(`empty audio is rejected`, func(t *testing.T) {
		i := impl{s3client: &s3Mock{}, bucketName: "voice", store: &voiceStoreMock{}}
		_, err := i.SaveVoice(context.Background(), VoiceUpload{})
		require.Error(t, err)
	})

	t.Run(`bucket is created once`, func(t *testing.T) {
		s3 := &s3Mock{}
		s3.On("BucketExists", "voice").Return(false, nil).Once()
		s3.On("MakeBucket", "voice").Return(nil).Once()
		i := impl{s3client: s3, bucketName: "voice"}
		require.NoError(t, i.MakeBucket(context.Background()))
		s3.AssertExpectations(t)
	})

	t.Run(`disabled storage is a no-op`, func(t *testing.T) {
		key, err := disabled{}.SaveVoice(context.Background(), VoiceUpload{Data: []byte{1}})
		require.NoError(t, err)
		require.Empty(t, key)
	})
}

func TestObjectKey(t *testing.T) {
	key := objectKeyFor(VoiceUpload{
		SessionType: dbmodels.SessionTypeCollector,
		SessionID:   "c1",
		Speaker:     dbmodels.SpeakerAssistant,
		ContentType: "audio/mpeg",
	})
	require.True(t, strings.HasPrefix(key, "collector/c1/assistant-"))
	require.True(t, strings.HasSuffix(key, ".mp3"))
	require.Equal(t, "bin", extByContentType("application/octet-stream"))
	require.Equal(t, "webm", extByContentType("audio/webm;codecs=opus"))
}
