package models

import "github.com/pkg/errors"

// Ошибки обработчиков, по ним контроллер выбирает http статус
var (
	ErrNotFound    = errors.New("запись не найдена")
	ErrCompleted   = errors.New("сессия уже завершена")
	ErrSessionBusy = errors.New("сессия занята обработкой другой реплики")
	ErrNoQuestions = errors.New("в интервью нет вопросов")
	ErrBadRequest  = errors.New("некорректный запрос")
)
