package transcripthandler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"interview-prep-backend/lib/ai/aimock"
	xlsexport "interview-prep-backend/lib/export/xls"
	filestorage "interview-prep-backend/lib/file-storage"
	"interview-prep-backend/models"
	transcriptapimodels "interview-prep-backend/models/api/transcript"
	dbmodels "interview-prep-backend/models/db"
)

type storeMock struct {
	mock.Mock
}

func (m *storeMock) Add(rec dbmodels.TranscriptEntry) (string, error) {
	args := m.Called(rec)
	return args.String(0), args.Error(1)
}

func (m *storeMock) List(sessionType dbmodels.SessionType, sessionID, userID string) ([]dbmodels.TranscriptEntry, error) {
	args := m.Called(sessionType, sessionID, userID)
	list, _ := args.Get(0).([]dbmodels.TranscriptEntry)
	return list, args.Error(1)
}

func (m *storeMock) Count(sessionType dbmodels.SessionType, sessionID string) (int64, error) {
	args := m.Called(sessionType, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

type fileStorageMock struct {
	mock.Mock
}

func (m *fileStorageMock) SaveVoice(ctx context.Context, upload filestorage.VoiceUpload) (string, error) {
	args := m.Called(upload)
	return args.String(0), args.Error(1)
}

func (m *fileStorageMock) GetVoice(ctx context.Context, objectKey string) ([]byte, error) {
	args := m.Called(objectKey)
	return nil, args.Error(1)
}

func (m *fileStorageMock) MakeBucket(ctx context.Context) error {
	return nil
}

func newTestImpl() (impl, *storeMock, *aimock.Provider, *fileStorageMock) {
	store := &storeMock{}
	ai := &aimock.Provider{}
	fs := &fileStorageMock{}
	xlsexport.NewHandler()
	return impl{store: store, ai: ai, fileStorage: fs, xls: xlsexport.Instance}, store, ai, fs
}

func TestRecord(t *testing.T) {
	t.Run(`message is trimmed and stored`, func(t *testing.T) {
		i, store, _, _ := newTestImpl()
		userID := "u1"
		store.On("Add", dbmodels.TranscriptEntry{
			SessionType: dbmodels.SessionTypeInterview,
			SessionID:   "s1",
			UserID:      &userID,
			Speaker:     dbmodels.SpeakerUser,
			Message:     "Goroutines are cheap",
		}).Return("t1", nil).Once()

		err := i.Record(dbmodels.SessionTypeInterview, "s1", &userID, dbmodels.SpeakerUser, "  Goroutines are cheap \n")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run(`blank message is skipped`, func(t *testing.T) {
		i, store, _, _ := newTestImpl()
		require.NoError(t, i.Record(dbmodels.SessionTypeCollector, "c1", nil, dbmodels.SpeakerUser, "   "))
		store.AssertNotCalled(t, "Add", mock.Anything)
	})
}

func TestList(t *testing.T) {
	t.Run(`entries are mapped in order`, func(t *testing.T) {
		i, store, _, _ := newTestImpl()
		userID := "u1"
		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		store.On("List", dbmodels.SessionTypeCollector, "c1", "u1").Return([]dbmodels.TranscriptEntry{
			{ID: "1", CreatedAt: created, SessionType: dbmodels.SessionTypeCollector, SessionID: "c1", UserID: &userID, Speaker: dbmodels.SpeakerAssistant, Message: "Hi"},
			{ID: "2", CreatedAt: created.Add(time.Second), SessionType: dbmodels.SessionTypeCollector, SessionID: "c1", Speaker: dbmodels.SpeakerUser, Message: "Yes"},
		}, nil)

		list, err := i.List(dbmodels.SessionTypeCollector, "c1", "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "u1", list[0].UserID)
		require.Equal(t, "assistant", list[0].Speaker)
		require.Equal(t, "", list[1].UserID)
		require.Equal(t, "Yes", list[1].Message)
	})

	t.Run(`unknown session type`, func(t *testing.T) {
		i, _, _, _ := newTestImpl()
		_, err := i.List("chat", "c1", "")
		require.True(t, errors.Is(err, models.ErrBadRequest))
	})
}

func TestTranscribeUpload(t *testing.T) {
	audio := []byte{1, 2, 3}

	t.Run(`without session only transcribes`, func(t *testing.T) {
		i, store, ai, fs := newTestImpl()
		ai.On("Transcribe", mock.Anything, "voice.webm", audio).Return("hello there", nil).Once()

		resp, err := i.TranscribeUpload(context.Background(), Upload{FileName: "voice.webm", Data: audio, UserID: "u1"})
		require.NoError(t, err)
		require.Equal(t, transcriptapimodels.VoiceTranscribeResponse{Text: "hello there", UserID: "u1"}, resp)
		store.AssertNotCalled(t, "Add", mock.Anything)
		fs.AssertNotCalled(t, "SaveVoice", mock.Anything)
	})

	t.Run(`with session appends user entry and archives audio`, func(t *testing.T) {
		i, store, ai, fs := newTestImpl()
		ai.On("Transcribe", mock.Anything, "voice.webm", audio).Return("I use channels", nil).Once()
		store.On("Add", mock.MatchedBy(func(rec dbmodels.TranscriptEntry) bool {
			return rec.SessionID == "s1" && rec.Speaker == dbmodels.SpeakerUser && rec.Message == "I use channels" && rec.UserID == nil
		})).Return("t1", nil).Once()
		fs.On("SaveVoice", mock.MatchedBy(func(upload filestorage.VoiceUpload) bool {
			return upload.SessionID == "s1" && len(upload.Data) == 3
		})).Return("", errors.New("s3 down")).Once()

		resp, err := i.TranscribeUpload(context.Background(), Upload{
			FileName:    "voice.webm",
			ContentType: "audio/webm",
			Data:        audio,
			SessionType: dbmodels.SessionTypeInterview,
			SessionID:   "s1",
		})
		require.NoError(t, err)
		require.Equal(t, "I use channels", resp.Text)
		store.AssertExpectations(t)
		fs.AssertExpectations(t)
	})

	t.Run(`empty upload`, func(t *testing.T) {
		i, _, ai, _ := newTestImpl()
		_, err := i.TranscribeUpload(context.Background(), Upload{FileName: "voice.webm"})
		require.True(t, errors.Is(err, models.ErrBadRequest))
		ai.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run(`invalid session type`, func(t *testing.T) {
		i, _, _, _ := newTestImpl()
		_, err := i.TranscribeUpload(context.Background(), Upload{Data: audio, SessionType: "chat", SessionID: "s1"})
		require.True(t, errors.Is(err, models.ErrBadRequest))
	})

	t.Run(`provider error is returned`, func(t *testing.T) {
		i, _, ai, _ := newTestImpl()
		ai.On("Transcribe", mock.Anything, "a.mp3", audio).Return("", errors.New("timeout")).Once()
		_, err := i.TranscribeUpload(context.Background(), Upload{FileName: "a.mp3", Data: audio})
		require.Error(t, err)
	})
}

func TestExport(t *testing.T) {
	list := []dbmodels.TranscriptEntry{
		{CreatedAt: time.Now(), Speaker: dbmodels.SpeakerAssistant, Message: "First question: what is Go?"},
	}

	t.Run(`xlsx`, func(t *testing.T) {
		i, store, _, _ := newTestImpl()
		store.On("List", dbmodels.SessionTypeInterview, "s1", "").Return(list, nil)
		file, err := i.Export(dbmodels.SessionTypeInterview, "s1", "", transcriptapimodels.ExportXlsx)
		require.NoError(t, err)
		require.Equal(t, "transcript_interview_s1.xlsx", file.FileName)
		require.NotEmpty(t, file.Data)
	})

	t.Run(`pdf`, func(t *testing.T) {
		i, store, _, _ := newTestImpl()
		store.On("List", dbmodels.SessionTypeInterview, "s1", "").Return(list, nil)
		file, err := i.Export(dbmodels.SessionTypeInterview, "s1", "", transcriptapimodels.ExportPdf)
		require.NoError(t, err)
		require.Equal(t, "application/pdf", file.ContentType)
	})

	t.Run(`unknown format`, func(t *testing.T) {
		i, store, _, _ := newTestImpl()
		store.On("List", dbmodels.SessionTypeInterview, "s1", "").Return(list, nil)
		_, err := i.Export(dbmodels.SessionTypeInterview, "s1", "", "docx")
		require.True(t, errors.Is(err, models.ErrBadRequest))
	})
}
