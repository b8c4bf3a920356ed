// Package aimock подмена aihandler.Provider для тестов обработчиков
package aimock

import (
	"context"

	"github.com/stretchr/testify/mock"
	speechcache "interview-prep-backend/lib/ai/speech-cache"
	"interview-prep-backend/lib/flow"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) GenerateQuestions(ctx context.Context, sessionID string, setup flow.Setup) ([]string, error) {
	args := m.Called(ctx, sessionID, setup)
	questions, _ := args.Get(0).([]string)
	return questions, args.Error(1)
}

func (m *Provider) CollectorReply(ctx context.Context, sessionID string, field flow.Field, userResponse, nextPrompt string) (string, error) {
	args := m.Called(ctx, sessionID, field, userResponse, nextPrompt)
	return args.String(0), args.Error(1)
}

func (m *Provider) InterviewReply(ctx context.Context, sessionID, userAnswer, currentQuestion, nextQuestion string) (string, error) {
	args := m.Called(ctx, sessionID, userAnswer, currentQuestion, nextQuestion)
	return args.String(0), args.Error(1)
}

func (m *Provider) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	args := m.Called(ctx, fileName, audio)
	return args.String(0), args.Error(1)
}

func (m *Provider) Synthesize(ctx context.Context, text string) (speechcache.Speech, error) {
	args := m.Called(ctx, text)
	speech, _ := args.Get(0).(speechcache.Speech)
	return speech, args.Error(1)
}
