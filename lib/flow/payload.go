package flow

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Payload собранные параметры интервью, хранится в сессии сборщика как json
type Payload struct {
	Ready         bool     `json:"readiness,omitempty"`
	Role          string   `json:"role,omitempty"`
	InterviewType string   `json:"interview_type,omitempty"`
	Level         string   `json:"level,omitempty"`
	TechStack     []string `json:"techstack,omitempty"`
	Amount        int      `json:"amount,omitempty"`
}

func ParsePayload(data []byte) (Payload, error) {
	p := Payload{}
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, errors.Wrap(err, "ошибка разбора собранных параметров")
	}
	return p, nil
}

func (p Payload) JSON() []byte {
	data, _ := json.Marshal(p)
	return data
}

// Has заполнено ли поле
func (p Payload) Has(f Field) bool {
	switch f {
	case FieldReadiness:
		return p.Ready
	case FieldRole:
		return p.Role != ""
	case FieldInterviewType:
		return p.InterviewType != ""
	case FieldLevel:
		return p.Level != ""
	case FieldTechStack:
		return len(p.TechStack) != 0
	case FieldAmount:
		return p.Amount != 0
	}
	return false
}

// Display значение поля в виде текста
func (p Payload) Display(f Field) string {
	switch f {
	case FieldRole:
		return p.Role
	case FieldInterviewType:
		return p.InterviewType
	case FieldLevel:
		return p.Level
	case FieldTechStack:
		return strings.Join(p.TechStack, ", ")
	case FieldAmount:
		if p.Amount == 0 {
			return ""
		}
		return strconv.Itoa(p.Amount)
	case FieldReadiness:
		if p.Ready {
			return "ready"
		}
	}
	return ""
}

// with возвращает копию с установленным значением поля
func (p Payload) with(f Field, v Value) Payload {
	switch f {
	case FieldReadiness:
		p.Ready = true
	case FieldRole:
		p.Role = v.Text
	case FieldInterviewType:
		p.InterviewType = v.Text
	case FieldLevel:
		p.Level = v.Text
	case FieldTechStack:
		p.TechStack = append([]string(nil), v.List...)
	case FieldAmount:
		p.Amount = v.Number
	}
	return p
}

// Setup собранные параметры, достаточные для генерации вопросов
type Setup struct {
	Role          string   `json:"role"`
	InterviewType string   `json:"interview_type"`
	Level         string   `json:"level"`
	TechStack     []string `json:"techstack"`
	Amount        int      `json:"amount"`
}

// BuildSetup проверяет что все поля собраны
func (p Payload) BuildSetup() (Setup, error) {
	for _, f := range Order {
		if f.IsCollectable() && !p.Has(f) {
			return Setup{}, errors.Errorf("не заполнено поле %s", f)
		}
	}
	return Setup{
		Role:          p.Role,
		InterviewType: p.InterviewType,
		Level:         p.Level,
		TechStack:     append([]string(nil), p.TechStack...),
		Amount:        p.Amount,
	}, nil
}
