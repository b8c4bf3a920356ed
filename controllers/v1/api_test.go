package apiv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	collectorhandler "interview-prep-backend/lib/collector"
	interviewhandler "interview-prep-backend/lib/interview"
	"interview-prep-backend/lib/flow"
	transcripthandler "interview-prep-backend/lib/transcript"
	"interview-prep-backend/lib/transcript/transcriptmock"
	voicehub "interview-prep-backend/lib/voice/hub"
	"interview-prep-backend/models"
	apimodels "interview-prep-backend/models/api"
	collectorapimodels "interview-prep-backend/models/api/collector"
	interviewapimodels "interview-prep-backend/models/api/interview"
	transcriptapimodels "interview-prep-backend/models/api/transcript"
	dbmodels "interview-prep-backend/models/db"
)

const testSessionID = "6f1c3c2e-3a7b-4c55-9d2f-0a8f3b7d1e21"

type collectorMock struct {
	mock.Mock
}

func (m *collectorMock) Start(ctx context.Context, req collectorapimodels.StartRequest) (collectorapimodels.StartResponse, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(collectorapimodels.StartResponse)
	return resp, args.Error(1)
}

func (m *collectorMock) Turn(ctx context.Context, sessionID string, req collectorapimodels.TurnRequest) (collectorapimodels.TurnResponse, error) {
	args := m.Called(sessionID, req)
	resp, _ := args.Get(0).(collectorapimodels.TurnResponse)
	return resp, args.Error(1)
}

func (m *collectorMock) Get(ctx context.Context, sessionID, userID string) (collectorapimodels.SessionView, error) {
	args := m.Called(sessionID, userID)
	resp, _ := args.Get(0).(collectorapimodels.SessionView)
	return resp, args.Error(1)
}

type interviewMock struct {
	mock.Mock
	interviewhandler.Provider
}

func (m *interviewMock) Create(ctx context.Context, sourceSessionID, userID string, setup flow.Setup) (interviewapimodels.CreateResponse, error) {
	args := m.Called(sourceSessionID, userID, setup)
	resp, _ := args.Get(0).(interviewapimodels.CreateResponse)
	return resp, args.Error(1)
}

func (m *interviewMock) Turn(ctx context.Context, sessionID string, req interviewapimodels.TurnRequest) (interviewapimodels.TurnResponse, error) {
	args := m.Called(sessionID, req)
	resp, _ := args.Get(0).(interviewapimodels.TurnResponse)
	return resp, args.Error(1)
}

func (m *interviewMock) GetSession(ctx context.Context, sessionID, userID string) (interviewapimodels.SessionView, error) {
	args := m.Called(sessionID, userID)
	resp, _ := args.Get(0).(interviewapimodels.SessionView)
	return resp, args.Error(1)
}

type wsConnStub struct{}

func (wsConnStub) WriteJSON(v interface{}) error { return nil }

func (wsConnStub) WriteControl(messageType int, data []byte, deadline time.Time) error { return nil }

func newApp() *fiber.App {
	app := fiber.New()
	InitCollectorApiRouters(app)
	InitInterviewApiRouters(app)
	InitTranscriptApiRouters(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, apimodels.Response) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := apimodels.Response{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestCollectorApi(t *testing.T) {
	t.Run(`start passes user id from body`, func(t *testing.T) {
		m := &collectorMock{}
		collectorhandler.Instance = m
		m.On("Start", collectorapimodels.StartRequest{UserID: "u1", CandidateName: "Ann"}).
			Return(collectorapimodels.StartResponse{CollectorSessionID: testSessionID, ExpectedField: "role"}, nil)

		status, out := doJSON(t, newApp(), "POST", "/collector/start", `{"user_id":"u1","candidate_name":"Ann"}`)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "success", out.Status)
		m.AssertExpectations(t)
	})

	t.Run(`empty turn rejected before handler`, func(t *testing.T) {
		m := &collectorMock{}
		collectorhandler.Instance = m
		status, out := doJSON(t, newApp(), "POST", "/collector/"+testSessionID+"/turn", `{"user_message":"  "}`)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, "fail", out.Status)
		m.AssertNotCalled(t, "Turn", mock.Anything, mock.Anything)
	})

	t.Run(`turn on completed session`, func(t *testing.T) {
		m := &collectorMock{}
		collectorhandler.Instance = m
		m.On("Turn", testSessionID, mock.Anything).Return(nil, errors.Wrap(models.ErrCompleted, "сессия"))
		status, _ := doJSON(t, newApp(), "POST", "/collector/"+testSessionID+"/turn", `{"user_message":"Backend"}`)
		require.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run(`get unknown session`, func(t *testing.T) {
		m := &collectorMock{}
		collectorhandler.Instance = m
		m.On("Get", testSessionID, "").Return(nil, models.ErrNotFound)
		status, _ := doJSON(t, newApp(), "GET", "/collector/"+testSessionID, "")
		require.Equal(t, fiber.StatusNotFound, status)
	})

	t.Run(`bad id`, func(t *testing.T) {
		collectorhandler.Instance = &collectorMock{}
		status, _ := doJSON(t, newApp(), "GET", "/collector/abc", "")
		require.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestInterviewApi(t *testing.T) {
	t.Run(`create validates payload`, func(t *testing.T) {
		m := &interviewMock{}
		interviewhandler.Instance = m
		status, _ := doJSON(t, newApp(), "POST", "/interviews", `{"role":"Backend","interview_type":"technical","level":"Senior","techstack":["Go"],"amount":0}`)
		require.Equal(t, fiber.StatusBadRequest, status)
		m.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run(`create`, func(t *testing.T) {
		m := &interviewMock{}
		interviewhandler.Instance = m
		setup := flow.Setup{Role: "Backend", InterviewType: "technical", Level: "Senior", TechStack: []string{"Go", "Postgres"}, Amount: 3}
		m.On("Create", "", "u1", setup).Return(interviewapimodels.CreateResponse{InterviewID: "i1", Questions: []string{"a", "b", "c"}}, nil)
		status, out := doJSON(t, newApp(), "POST", "/interviews", `{"user_id":"u1","role":"Backend","interview_type":"technical","level":"Senior","techstack":["Go"," Postgres"],"amount":3}`)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "success", out.Status)
		m.AssertExpectations(t)
	})

	t.Run(`busy session`, func(t *testing.T) {
		m := &interviewMock{}
		interviewhandler.Instance = m
		m.On("Turn", testSessionID, interviewapimodels.TurnRequest{UserMessage: "answer"}).Return(nil, models.ErrSessionBusy)
		status, _ := doJSON(t, newApp(), "POST", "/interviews/sessions/"+testSessionID+"/turn", `{"user_message":"answer"}`)
		require.Equal(t, fiber.StatusConflict, status)
	})

	t.Run(`session shows open voice channel`, func(t *testing.T) {
		m := &interviewMock{}
		interviewhandler.Instance = m
		hub := voicehub.New()
		voicehub.Instance = hub
		defer func() { voicehub.Instance = nil }()
		view := interviewapimodels.SessionView{InterviewSessionID: testSessionID, Status: "active", TotalQuestions: 3}
		m.On("GetSession", testSessionID, "").Return(view, nil)

		status, out := doJSON(t, newApp(), "GET", "/interviews/sessions/"+testSessionID, "")
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, false, out.Data.(map[string]interface{})["voice_connected"])

		sess := hub.AddClient(testSessionID, wsConnStub{})
		defer hub.DeleteClient(testSessionID, sess)
		status, out = doJSON(t, newApp(), "GET", "/interviews/sessions/"+testSessionID, "")
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, true, out.Data.(map[string]interface{})["voice_connected"])
	})

	t.Run(`voice requires websocket upgrade`, func(t *testing.T) {
		resp, err := newApp().Test(httptest.NewRequest("GET", "/interviews/sessions/"+testSessionID+"/voice", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
	})
}

func TestTranscriptApi(t *testing.T) {
	t.Run(`invalid session type`, func(t *testing.T) {
		transcripthandler.Instance = &transcriptmock.Provider{}
		status, _ := doJSON(t, newApp(), "GET", "/transcripts/chat/"+testSessionID, "")
		require.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run(`list`, func(t *testing.T) {
		m := &transcriptmock.Provider{}
		transcripthandler.Instance = m
		m.On("List", dbmodels.SessionTypeInterview, testSessionID, "u1").
			Return([]transcriptapimodels.Item{{Speaker: "assistant", Message: "Hi"}}, nil)
		status, out := doJSON(t, newApp(), "GET", "/transcripts/interview/"+testSessionID+"?user_id=u1", "")
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "success", out.Status)
		m.AssertExpectations(t)
	})

	t.Run(`export sends attachment`, func(t *testing.T) {
		m := &transcriptmock.Provider{}
		transcripthandler.Instance = m
		m.On("Export", dbmodels.SessionTypeCollector, testSessionID, "", transcriptapimodels.ExportPdf).
			Return(transcripthandler.ExportFile{FileName: "t.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil)
		resp, err := newApp().Test(httptest.NewRequest(http.MethodGet, "/transcripts/collector/"+testSessionID+"/export?format=pdf", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="t.pdf"`)
	})

	t.Run(`transcribe without file`, func(t *testing.T) {
		transcripthandler.Instance = &transcriptmock.Provider{}
		resp, err := newApp().Test(httptest.NewRequest(http.MethodPost, "/transcripts/voice/transcribe", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
