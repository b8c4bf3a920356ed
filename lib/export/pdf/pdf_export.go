package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	dbmodels "interview-prep-backend/models/db"
)

// GenerateTranscript стенограмма сессии в pdf.
// Используется встроенный шрифт, символы вне cp1252 заменяются.
func GenerateTranscript(sessionType dbmodels.SessionType, sessionID string, list []dbmodels.TranscriptEntry) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateTranscript panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Transcript "+sessionID, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(titleFor(sessionType)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, tr("Session: "+sessionID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(list) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No messages yet.", "", 1, "L", false, 0, "")
	}
	for _, item := range list {
		pdf.SetFont("Helvetica", "B", 10)
		header := fmt.Sprintf("%s  %s", speakerLabel(item.Speaker), item.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		pdf.CellFormat(0, 6, tr(header), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, tr(item.Message), "", "L", false)
		pdf.Ln(2)
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func titleFor(sessionType dbmodels.SessionType) string {
	if sessionType == dbmodels.SessionTypeCollector {
		return "Interview setup transcript"
	}
	return "Interview transcript"
}

func speakerLabel(speaker dbmodels.Speaker) string {
	if speaker == dbmodels.SpeakerAssistant {
		return "Interviewer"
	}
	return "Candidate"
}
