package flow

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrCompleted = errors.New("сбор параметров уже завершен")

// State состояние сценария сбора параметров
type State struct {
	Current Field
	Payload Payload
}

func (s State) Completed() bool {
	return s.Current == FieldCompleted
}

// Outcome результат обработки одной реплики пользователя
type Outcome struct {
	Intent Intent
	// Field поле, к которому относится реплика (для исправления - исправленное поле)
	Field Field
	// State новое состояние, для не-ответов совпадает с исходным
	State State
	// Reply готовый текст ответа ассистента; пустой для IntentAnswer - ответ формирует модель
	Reply string
	// NextPrompt вопрос для следующего поля, пустой при завершении
	NextPrompt string
	// Value исходный ответ пользователя после очистки
	Value string
	// Err ошибка нормализации, состояние не изменилось
	Err *ValidationError
}

func (o Outcome) Completed() bool {
	return o.State.Completed()
}

// Mutated изменилось ли состояние (ответ, исправление или подтверждение готовности)
func (o Outcome) Mutated() bool {
	if o.Err != nil {
		return false
	}
	switch o.Intent {
	case IntentAnswer, IntentConfirmReady:
		return true
	case IntentCorrection:
		// отложенное исправление поле не заполняет
		return o.State.Payload.Has(o.Field)
	}
	return false
}

// Service сценарий сбора параметров интервью. Не хранит состояние между вызовами.
type Service struct{}

func NewService() Service {
	return Service{}
}

// Start начальное состояние сессии
func (s Service) Start() State {
	return State{Current: FieldReadiness}
}

// Greeting первая реплика ассистента
func (s Service) Greeting() string {
	return Prompt(FieldReadiness)
}

// Advance обрабатывает реплику пользователя для текущего поля
func (s Service) Advance(state State, message string) (Outcome, error) {
	if state.Completed() {
		return Outcome{}, ErrCompleted
	}
	if state.Current < FieldReadiness || state.Current > FieldAmount {
		return Outcome{}, errors.Errorf("некорректное состояние сценария: %d", state.Current)
	}
	current := state.Current

	if fix, ok := detectCorrection(message, state); ok {
		switch {
		case fix.Deferred:
			return s.deferCorrection(state, fix), nil
		case fix.Field == current:
			return s.applyAnswer(state, fix.Raw), nil
		default:
			return s.applyCorrection(state, fix), nil
		}
	}

	intent := ClassifyIntent(current, message)
	out := Outcome{Intent: intent, Field: current, State: state}
	switch intent {
	case IntentRepeat:
		out.Reply = Prompt(current)
	case IntentExamples:
		out.Reply = Examples(current)
	case IntentClarify:
		out.Reply = join(Clarification(current), Prompt(current))
	case IntentNotReady:
		if current == FieldReadiness {
			out.Reply = notReadyReply
		} else {
			out.Reply = join(pauseReply, Prompt(current))
		}
	case IntentConfirmReady:
		out.State = State{Current: Next(current), Payload: state.Payload.with(FieldReadiness, Value{})}
		out.NextPrompt = Prompt(out.State.Current)
		out.Reply = join(readyReply, out.NextPrompt)
	case IntentAnswer:
		return s.applyAnswer(state, stripTriggers(message)), nil
	}
	return out, nil
}

func (s Service) applyAnswer(state State, raw string) Outcome {
	current := state.Current
	out := Outcome{Intent: IntentAnswer, Field: current, State: state, Value: cleanValue(raw)}
	value, err := Normalize(current, raw)
	if err != nil {
		return s.rejected(out, err)
	}
	next := Next(current)
	out.State = State{Current: next, Payload: state.Payload.with(current, value)}
	if next != FieldCompleted {
		out.NextPrompt = Prompt(next)
	}
	return out
}

func (s Service) applyCorrection(state State, fix correction) Outcome {
	out := Outcome{Intent: IntentCorrection, Field: fix.Field, State: state, Value: cleanValue(fix.Raw)}
	value, err := Normalize(fix.Field, fix.Raw)
	if err != nil {
		out = s.rejected(out, err)
		out.Reply = join(out.Reply, Prompt(state.Current))
		return out
	}
	// указатель на текущее поле не меняется, уже собранные последующие поля сохраняются
	out.State = State{Current: state.Current, Payload: state.Payload.with(fix.Field, value)}
	out.Reply = join(
		fmt.Sprintf(correctionTemplate, fix.Field.Label(), out.State.Payload.Display(fix.Field)),
		Prompt(state.Current),
	)
	out.NextPrompt = Prompt(state.Current)
	return out
}

// deferCorrection поле еще не собрано: состояние не меняется, повторяется текущий вопрос
func (s Service) deferCorrection(state State, fix correction) Outcome {
	return Outcome{
		Intent: IntentCorrection,
		Field:  fix.Field,
		State:  state,
		Reply:  join(fmt.Sprintf(deferredTemplate, fix.Field.Label()), Prompt(state.Current)),
	}
}

func (s Service) rejected(out Outcome, err error) Outcome {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		vErr = newValidationError(out.Field, err.Error())
	}
	out.Err = vErr
	out.Reply = fmt.Sprintf(validationTemplate, vErr.Field.Label(), vErr.Reason)
	if out.Intent == IntentAnswer {
		out.Reply = join(out.Reply, Prompt(out.Field))
	}
	return out
}

func join(parts ...string) string {
	result := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if result != "" {
			result += " "
		}
		result += part
	}
	return result
}
