package aihandler

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidQuestions = errors.New("модель вернула некорректный список вопросов")

// stripJSONFences убирает markdown обертку ```json ... ``` вокруг ответа
func stripJSONFences(text string) string {
	stripped := strings.TrimSpace(text)
	if !strings.HasPrefix(stripped, "```") {
		return stripped
	}
	lines := strings.Split(stripped, "\n")
	if len(lines) >= 3 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	}
	return stripped
}

// parseQuestions требует ровно amount непустых вопросов
func parseQuestions(raw string, amount int) ([]string, error) {
	cleaned := stripJSONFences(raw)
	if cleaned == "" {
		cleaned = "{}"
	}
	data := struct {
		Questions []interface{} `json:"questions"`
	}{}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, errors.Wrap(ErrInvalidQuestions, err.Error())
	}
	if len(data.Questions) != amount {
		return nil, errors.Wrapf(ErrInvalidQuestions, "ожидалось %d, получено %d", amount, len(data.Questions))
	}
	questions := make([]string, 0, amount)
	for _, item := range data.Questions {
		text, ok := item.(string)
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			questions = append(questions, text)
		}
	}
	if len(questions) != amount {
		return nil, errors.Wrap(ErrInvalidQuestions, "пустые или некорректные вопросы")
	}
	return questions, nil
}
