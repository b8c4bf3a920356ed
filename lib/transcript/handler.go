package transcripthandler

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/db"
	aihandler "interview-prep-backend/lib/ai"
	pdfexport "interview-prep-backend/lib/export/pdf"
	xlsexport "interview-prep-backend/lib/export/xls"
	filestorage "interview-prep-backend/lib/file-storage"
	transcriptstore "interview-prep-backend/lib/transcript/store"
	initchecker "interview-prep-backend/lib/utils/init-checker"
	"interview-prep-backend/models"
	transcriptapimodels "interview-prep-backend/models/api/transcript"
	dbmodels "interview-prep-backend/models/db"
)

type Provider interface {
	Record(sessionType dbmodels.SessionType, sessionID string, userID *string, speaker dbmodels.Speaker, message string) error
	List(sessionType dbmodels.SessionType, sessionID, userID string) ([]transcriptapimodels.Item, error)
	IsEmpty(sessionType dbmodels.SessionType, sessionID string) (bool, error)
	TranscribeUpload(ctx context.Context, upload Upload) (transcriptapimodels.VoiceTranscribeResponse, error)
	Export(sessionType dbmodels.SessionType, sessionID, userID string, format transcriptapimodels.ExportFormat) (ExportFile, error)
}

// Upload загруженный аудио файл. Если задана сессия, распознанный текст добавляется в ее стенограмму
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
	SessionType dbmodels.SessionType
	SessionID   string
	UserID      string
}

type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"aihandler", aihandler.Instance,
		"filestorage", filestorage.Instance,
		"xlsexport", xlsexport.Instance,
	)
	Instance = impl{
		store:       transcriptstore.NewInstance(db.DB),
		ai:          aihandler.Instance,
		fileStorage: filestorage.Instance,
		xls:         xlsexport.Instance,
	}
}

type impl struct {
	store       transcriptstore.Provider
	ai          aihandler.Provider
	fileStorage filestorage.Provider
	xls         xlsexport.Provider
}

func (i impl) Record(sessionType dbmodels.SessionType, sessionID string, userID *string, speaker dbmodels.Speaker, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	_, err := i.store.Add(dbmodels.TranscriptEntry{
		SessionType: sessionType,
		SessionID:   sessionID,
		UserID:      userID,
		Speaker:     speaker,
		Message:     message,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка добавления реплики в стенограмму")
	}
	return nil
}

func (i impl) List(sessionType dbmodels.SessionType, sessionID, userID string) ([]transcriptapimodels.Item, error) {
	if !sessionType.IsValid() {
		return nil, errors.Wrapf(models.ErrBadRequest, "неизвестный тип сессии %q", sessionType)
	}
	list, err := i.store.List(sessionType, sessionID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения стенограммы")
	}
	result := make([]transcriptapimodels.Item, 0, len(list))
	for _, rec := range list {
		result = append(result, toItem(rec))
	}
	return result, nil
}

func (i impl) IsEmpty(sessionType dbmodels.SessionType, sessionID string) (bool, error) {
	count, err := i.store.Count(sessionType, sessionID)
	if err != nil {
		return false, errors.Wrap(err, "ошибка подсчета реплик стенограммы")
	}
	return count == 0, nil
}

func (i impl) TranscribeUpload(ctx context.Context, upload Upload) (transcriptapimodels.VoiceTranscribeResponse, error) {
	if len(upload.Data) == 0 {
		return transcriptapimodels.VoiceTranscribeResponse{}, errors.Wrap(models.ErrBadRequest, "пустой аудио файл")
	}
	withSession := upload.SessionType != "" && upload.SessionID != ""
	if withSession && !upload.SessionType.IsValid() {
		return transcriptapimodels.VoiceTranscribeResponse{}, errors.Wrapf(models.ErrBadRequest, "неизвестный тип сессии %q", upload.SessionType)
	}
	text, err := i.ai.Transcribe(ctx, upload.FileName, upload.Data)
	if err != nil {
		return transcriptapimodels.VoiceTranscribeResponse{}, err
	}
	result := transcriptapimodels.VoiceTranscribeResponse{
		Text:   text,
		UserID: upload.UserID,
	}
	if !withSession {
		return result, nil
	}
	userID := optional(upload.UserID)
	if err = i.Record(upload.SessionType, upload.SessionID, userID, dbmodels.SpeakerUser, text); err != nil {
		return result, err
	}
	_, err = i.fileStorage.SaveVoice(ctx, filestorage.VoiceUpload{
		SessionType: upload.SessionType,
		SessionID:   upload.SessionID,
		UserID:      userID,
		Speaker:     dbmodels.SpeakerUser,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Data:        upload.Data,
	})
	if err != nil {
		log.
			WithField("session_id", upload.SessionID).
			WithError(err).
			Warn("не удалось сохранить аудио пользователя")
	}
	return result, nil
}

func (i impl) Export(sessionType dbmodels.SessionType, sessionID, userID string, format transcriptapimodels.ExportFormat) (ExportFile, error) {
	if !sessionType.IsValid() {
		return ExportFile{}, errors.Wrapf(models.ErrBadRequest, "неизвестный тип сессии %q", sessionType)
	}
	list, err := i.store.List(sessionType, sessionID, userID)
	if err != nil {
		return ExportFile{}, errors.Wrap(err, "ошибка получения стенограммы")
	}
	baseName := fmt.Sprintf("transcript_%s_%s", sessionType, sessionID)
	switch format {
	case transcriptapimodels.ExportXlsx, "":
		buf, err := i.xls.ExportTranscript(sessionType, sessionID, list)
		if err != nil {
			return ExportFile{}, err
		}
		return ExportFile{
			FileName:    baseName + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf.Bytes(),
		}, nil
	case transcriptapimodels.ExportPdf:
		data, err := pdfexport.GenerateTranscript(sessionType, sessionID, list)
		if err != nil {
			return ExportFile{}, errors.Wrap(err, "ошибка формирования pdf")
		}
		return ExportFile{
			FileName:    baseName + ".pdf",
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return ExportFile{}, errors.Wrapf(models.ErrBadRequest, "неизвестный формат выгрузки %q", format)
	}
}

func toItem(rec dbmodels.TranscriptEntry) transcriptapimodels.Item {
	item := transcriptapimodels.Item{
		ID:          rec.ID,
		SessionType: string(rec.SessionType),
		SessionID:   rec.SessionID,
		Speaker:     string(rec.Speaker),
		Message:     rec.Message,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.UserID != nil {
		item.UserID = *rec.UserID
	}
	return item
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
