// Package transcriptmock подмена transcripthandler.Provider для тестов
package transcriptmock

import (
	"context"

	"github.com/stretchr/testify/mock"
	transcripthandler "interview-prep-backend/lib/transcript"
	transcriptapimodels "interview-prep-backend/models/api/transcript"
	dbmodels "interview-prep-backend/models/db"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) Record(sessionType dbmodels.SessionType, sessionID string, userID *string, speaker dbmodels.Speaker, message string) error {
	args := m.Called(sessionType, sessionID, userID, speaker, message)
	return args.Error(0)
}

func (m *Provider) List(sessionType dbmodels.SessionType, sessionID, userID string) ([]transcriptapimodels.Item, error) {
	args := m.Called(sessionType, sessionID, userID)
	list, _ := args.Get(0).([]transcriptapimodels.Item)
	return list, args.Error(1)
}

func (m *Provider) IsEmpty(sessionType dbmodels.SessionType, sessionID string) (bool, error) {
	args := m.Called(sessionType, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *Provider) TranscribeUpload(ctx context.Context, upload transcripthandler.Upload) (transcriptapimodels.VoiceTranscribeResponse, error) {
	args := m.Called(ctx, upload)
	resp, _ := args.Get(0).(transcriptapimodels.VoiceTranscribeResponse)
	return resp, args.Error(1)
}

func (m *Provider) Export(sessionType dbmodels.SessionType, sessionID, userID string, format transcriptapimodels.ExportFormat) (transcripthandler.ExportFile, error) {
	args := m.Called(sessionType, sessionID, userID, format)
	file, _ := args.Get(0).(transcripthandler.ExportFile)
	return file, args.Error(1)
}
