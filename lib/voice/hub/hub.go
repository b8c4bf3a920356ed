package voicehub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/lib/utils/metrics"
)

const replacedReason = "replaced by a newer connection"

type Provider interface {
	AddClient(sessionID string, conn Conn) *Session
	DeleteClient(sessionID string, sess *Session)
	IsConnected(sessionID string) bool
}

var Instance Provider

func Init() {
	Instance = New()
}

func New() Provider {
	return &impl{
		clients: map[string]*Session{},
	}
}

type impl struct {
	mu      sync.Mutex
	clients map[string]*Session // map[interviewSessionID]
}

// AddClient новое подключение вытесняет предыдущее для той же сессии интервью
func (i *impl) AddClient(sessionID string, conn Conn) *Session {
	sess := newSession(conn)
	i.mu.Lock()
	oldSess, ok := i.clients[sessionID]
	i.clients[sessionID] = sess
	i.mu.Unlock()
	if ok {
		log.WithField("session_id", sessionID).Info("Голосовой канал переподключен, старое соединение закрыто")
		oldSess.Close(websocket.CloseNormalClosure, replacedReason)
	} else {
		metrics.VoiceConnections.Inc()
	}
	return sess
}

// DeleteClient удаляет подключение, если оно не было вытеснено более новым
func (i *impl) DeleteClient(sessionID string, sess *Session) {
	i.mu.Lock()
	current, ok := i.clients[sessionID]
	if ok && current == sess {
		delete(i.clients, sessionID)
		metrics.VoiceConnections.Dec()
	}
	i.mu.Unlock()
	sess.Close(websocket.CloseNormalClosure, "")
}

func (i *impl) IsConnected(sessionID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.clients[sessionID]
	return ok
}
