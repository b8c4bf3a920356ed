package voicehub

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
	wsmodels "interview-prep-backend/models/ws"
)

const closeWriteWait = time.Second

// Conn запись в websocket соединение
type Conn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

// Session подключение к голосовому каналу, сообщения отправляются по очереди одной горутиной
type Session struct {
	conn   Conn
	sendCh chan wsmodels.ServerMessage
	ctx    context.Context
	stop   func()
	done   chan struct{}

	closeOnce   sync.Once
	closeCode   int
	closeReason string
}

func newSession(conn Conn) *Session {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := &Session{
		conn:      conn,
		sendCh:    make(chan wsmodels.ServerMessage, 8), // buffered
		ctx:       ctx,
		stop:      cancelFn,
		done:      make(chan struct{}),
		closeCode: websocket.CloseNormalClosure,
	}
	go sess.startSend()
	return sess
}

// Context завершается при закрытии сессии
func (s *Session) Context() context.Context {
	return s.ctx
}

// Done закрывается после отправки close фрейма
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Send ставит сообщение в очередь, false если сессия уже закрыта
func (s *Session) Send(msg wsmodels.ServerMessage) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.sendCh <- msg:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Close отправляет оставшиеся сообщения и закрывает соединение с кодом code
func (s *Session) Close(code int, reason string) {
	s.closeOnce.Do(func() {
		s.closeCode = code
		s.closeReason = reason
		s.stop()
	})
}

func (s *Session) startSend() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			s.flush()
			s.close()
			return
		case msg := <-s.sendCh:
			s.send(msg)
		}
	}
}

func (s *Session) flush() {
	for {
		select {
		case msg := <-s.sendCh:
			s.send(msg)
		default:
			return
		}
	}
}

func (s *Session) send(msg wsmodels.ServerMessage) {
	if err := s.conn.WriteJSON(msg); err != nil {
		log.WithError(err).Error("ошибка отправки сообщения")
		return
	}
	log.WithField("event", msg.Type).Debug("отправлено сообщение")
}

func (s *Session) close() {
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(s.closeCode, s.closeReason), time.Now().Add(closeWriteWait))
	if err != nil {
		log.WithError(err).Debug("не удалось отправить close фрейм")
	}
}
