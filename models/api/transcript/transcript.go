package transcriptapimodels

import (
	"time"
)

type Item struct {
	ID          string    `json:"id"`
	SessionType string    `json:"session_type"`
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id,omitempty"`
	Speaker     string    `json:"speaker"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListResponse struct {
	UserID string `json:"user_id,omitempty"`
	Items  []Item `json:"items"`
}

type VoiceTranscribeResponse struct {
	Text   string `json:"text"`
	UserID string `json:"user_id,omitempty"`
}

type ExportFormat string

const (
	ExportXlsx ExportFormat = "xlsx"
	ExportPdf  ExportFormat = "pdf"
)
