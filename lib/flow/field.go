package flow

import (
	"github.com/pkg/errors"
)

// Field шаг сценария сбора параметров интервью
type Field int

const (
	FieldReadiness Field = iota
	FieldRole
	FieldInterviewType
	FieldLevel
	FieldTechStack
	FieldAmount
	// FieldCompleted все параметры собраны, переходов дальше нет
	FieldCompleted
)

var fieldNames = map[Field]string{
	FieldReadiness:     "readiness",
	FieldRole:          "role",
	FieldInterviewType: "interview_type",
	FieldLevel:         "level",
	FieldTechStack:     "techstack",
	FieldAmount:        "amount",
	FieldCompleted:     "completed",
}

// Order порядок сбора полей
var Order = []Field{FieldReadiness, FieldRole, FieldInterviewType, FieldLevel, FieldTechStack, FieldAmount}

func (f Field) String() string {
	name, ok := fieldNames[f]
	if !ok {
		return "unknown"
	}
	return name
}

// Label название поля для сообщений пользователю
func (f Field) Label() string {
	switch f {
	case FieldRole:
		return "role"
	case FieldInterviewType:
		return "interview type"
	case FieldLevel:
		return "experience level"
	case FieldTechStack:
		return "tech stack"
	case FieldAmount:
		return "number of questions"
	case FieldReadiness:
		return "readiness"
	}
	return f.String()
}

// Next переход к следующему полю, FieldCompleted остается FieldCompleted
func Next(f Field) Field {
	if f < FieldReadiness || f >= FieldAmount {
		return FieldCompleted
	}
	return f + 1
}

func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return FieldCompleted, errors.Errorf("неизвестное поле сценария: %q", name)
}

// IsCollectable поле хранит значение в Payload
func (f Field) IsCollectable() bool {
	return f >= FieldRole && f <= FieldAmount
}
