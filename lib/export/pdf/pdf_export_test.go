package pdfexport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	dbmodels "interview-prep-backend/models/db"
)

func TestGenerateTranscript(t *testing.T) {
	t.Run(`pdf is produced`, func(t *testing.T) {
		list := []dbmodels.TranscriptEntry{
			{CreatedAt: time.Now(), Speaker: dbmodels.SpeakerAssistant, Message: "Great, let’s begin. First question: What is a slice?"},
			{CreatedAt: time.Now(), Speaker: dbmodels.SpeakerUser, Message: strings.Repeat("A view over an array. ", 200)},
		}
		data, err := GenerateTranscript(dbmodels.SessionTypeInterview, "s1", list)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})

	t.Run(`empty transcript`, func(t *testing.T) {
		data, err := GenerateTranscript(dbmodels.SessionTypeCollector, "c1", nil)
		require.NoError(t, err)
		require.NotEmpty(t, data)
	})
}
