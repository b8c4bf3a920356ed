package wsmodels

// Типы событий голосового канала
const (
	EventAssistantPrompt = "assistant_prompt"
	EventAssistantTurn   = "assistant_turn"
	EventCompleted       = "completed"
	EventError           = "error"
	EventPong            = "pong"

	EventPing      = "ping"
	EventUserAudio = "user_audio"
	EventUserText  = "user_text"
)

// ClientMessage сообщение от клиента
type ClientMessage struct {
	Type        string `json:"type"`                   // ping, user_audio, user_text
	AudioBase64 string `json:"audio_base64,omitempty"` // для user_audio
	Filename    string `json:"filename,omitempty"`     // имя аудио файла, определяет формат
	Text        string `json:"text,omitempty"`         // для user_text
}

// ServerMessage событие для клиента
type ServerMessage struct {
	Type                      string `json:"type"`
	Message                   string `json:"message,omitempty"`
	UserID                    string `json:"user_id,omitempty"`
	InterviewSessionID        string `json:"interview_session_id,omitempty"`
	Status                    string `json:"status,omitempty"`
	QuestionIndex             *int   `json:"question_index,omitempty"`
	UserText                  string `json:"user_text,omitempty"`
	AssistantText             string `json:"assistant_text,omitempty"`
	AssistantAudioBase64      string `json:"assistant_audio_base64,omitempty"`
	AssistantAudioContentType string `json:"assistant_audio_content_type,omitempty"`
}

func NewError(message string) ServerMessage {
	return ServerMessage{Type: EventError, Message: message}
}

func NewCompleted(message string) ServerMessage {
	return ServerMessage{Type: EventCompleted, Message: message}
}
