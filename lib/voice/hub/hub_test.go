package voicehub

import (
	"sync"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
	wsmodels "interview-prep-backend/models/ws"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []wsmodels.ServerMessage
	closed   []byte
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, v.(wsmodels.ServerMessage))
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = data
	return nil
}

func (f *fakeConn) snapshot() ([]wsmodels.ServerMessage, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]wsmodels.ServerMessage{}, f.messages...), f.closed
}

func TestSession(t *testing.T) {
	t.Run(`queued messages are flushed before close`, func(t *testing.T) {
		conn := &fakeConn{}
		sess := newSession(conn)
		require.True(t, sess.Send(wsmodels.ServerMessage{Type: wsmodels.EventPong}))
		require.True(t, sess.Send(wsmodels.NewCompleted("Interview already completed")))
		sess.Close(websocket.CloseNormalClosure, "")
		<-sess.Done()

		messages, closed := conn.snapshot()
		require.Len(t, messages, 2)
		require.Equal(t, wsmodels.EventCompleted, messages[1].Type)
		require.Equal(t, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), closed)
		require.False(t, sess.Send(wsmodels.ServerMessage{Type: wsmodels.EventPong}))
	})

	t.Run(`close code is sent once`, func(t *testing.T) {
		conn := &fakeConn{}
		sess := newSession(conn)
		sess.Close(websocket.ClosePolicyViolation, "Interview session not found")
		sess.Close(websocket.CloseInternalServerErr, "")
		<-sess.Done()
		_, closed := conn.snapshot()
		require.Equal(t, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Interview session not found"), closed)
	})
}

func TestHub(t *testing.T) {
	t.Run(`newer connection replaces older`, func(t *testing.T) {
		h := New()
		oldConn, newConn := &fakeConn{}, &fakeConn{}
		oldSess := h.AddClient("s1", oldConn)
		newSess := h.AddClient("s1", newConn)

		<-oldSess.Done()
		_, closed := oldConn.snapshot()
		require.Equal(t, websocket.FormatCloseMessage(websocket.CloseNormalClosure, replacedReason), closed)
		require.Error(t, oldSess.Context().Err())
		require.NoError(t, newSess.Context().Err())

		// старое соединение при выходе не удаляет новое
		h.DeleteClient("s1", oldSess)
		require.True(t, h.IsConnected("s1"))

		h.DeleteClient("s1", newSess)
		require.False(t, h.IsConnected("s1"))
	})
}
