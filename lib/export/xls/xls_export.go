package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	dbmodels "interview-prep-backend/models/db"
)

type Provider interface {
	ExportTranscript(sessionType dbmodels.SessionType, sessionID string, list []dbmodels.TranscriptEntry) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var (
	transcriptHeaders = []string{"#", "Time (UTC)", "Speaker", "Message"}
	transcriptWidths  = []float64{6, 22, 12, 100}
)

func (i impl) ExportTranscript(sessionType dbmodels.SessionType, sessionID string, list []dbmodels.TranscriptEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, transcriptHeaders, transcriptWidths)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		_, err = writeTranscriptData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if err = f.SetSheetName(sheet, sheetName(sessionType)); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа в xlsx")
	}
	if err = f.SetDocProps(&excelize.DocProperties{
		Title:   "Transcript " + sessionID,
		Creator: "AI Interview",
	}); err != nil {
		return nil, errors.Wrap(err, "ошибка заполнения свойств документа xlsx")
	}
	return f.WriteToBuffer()
}

func sheetName(sessionType dbmodels.SessionType) string {
	if sessionType == dbmodels.SessionTypeCollector {
		return "Setup"
	}
	return "Interview"
}

func writeTranscriptData(f *excelize.File, sheet string, list []dbmodels.TranscriptEntry, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(transcriptHeaders), row+len(list)); err != nil {
		return row, err
	}
	for idx, item := range list {
		row++
		values := []interface{}{
			idx + 1,
			item.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			string(item.Speaker),
			item.Message,
		}
		for col, value := range values {
			if err := writeColumn(f, sheet, col+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
