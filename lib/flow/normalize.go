package flow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinAmount       = 1
	MaxAmount       = 30
	maxTextLen      = 100
	maxTechStackLen = 20
)

// Value нормализованное значение поля
type Value struct {
	Text   string
	List   []string
	Number int
}

// ValidationError значение не прошло нормализацию, пользователя нужно переспросить
type ValidationError struct {
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newValidationError(f Field, reason string) *ValidationError {
	return &ValidationError{Field: f, Reason: reason}
}

// Normalize приводит ответ пользователя к значению поля
func Normalize(f Field, message string) (Value, error) {
	switch f {
	case FieldRole, FieldInterviewType, FieldLevel:
		text, err := normalizeText(f, message)
		return Value{Text: text}, err
	case FieldTechStack:
		list, err := normalizeTechStack(message)
		return Value{List: list}, err
	case FieldAmount:
		n, err := normalizeAmount(message)
		return Value{Number: n}, err
	}
	return Value{}, newValidationError(f, "this field does not take a value")
}

var answerFillers = []string{
	"it's", "it is", "i'd say", "i would say", "let's do", "let's go with", "let's go for",
	"i'm", "i am", "please", "ok", "okay", "so", "um", "uh", "well",
}

func normalizeText(f Field, message string) (string, error) {
	value := stripLeading(cleanValue(message), answerFillers)
	if value == "" {
		return "", newValidationError(f, "the answer is empty")
	}
	if utf8.RuneCountInString(value) > maxTextLen {
		return "", newValidationError(f, fmt.Sprintf("please keep it under %d characters", maxTextLen))
	}
	return value, nil
}

var techStackSeparator = regexp.MustCompile(`(?i)\s*(?:,|;|\s&\s|\sand\s)\s*`)

func normalizeTechStack(message string) ([]string, error) {
	value := stripLeading(cleanValue(message), answerFillers)
	seen := map[string]bool{}
	result := []string{}
	for _, item := range techStackSeparator.Split(value, -1) {
		item = cleanValue(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item)
	}
	if len(result) == 0 {
		return nil, newValidationError(FieldTechStack, "please name at least one technology")
	}
	if len(result) > maxTechStackLen {
		return nil, newValidationError(FieldTechStack, fmt.Sprintf("please name at most %d technologies", maxTechStackLen))
	}
	return result, nil
}

var digitsRe = regexp.MustCompile(`-?\d+`)

var unitWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "dozen": 12,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90,
}

func normalizeAmount(message string) (int, error) {
	amount, ok := parseAmount(message)
	if !ok {
		return 0, newValidationError(FieldAmount, fmt.Sprintf("please say a number between %d and %d", MinAmount, MaxAmount))
	}
	if amount < MinAmount || amount > MaxAmount {
		return 0, newValidationError(FieldAmount, fmt.Sprintf("the amount must be between %d and %d", MinAmount, MaxAmount))
	}
	return amount, nil
}

func parseAmount(message string) (int, bool) {
	if digits := digitsRe.FindString(message); digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return parseNumberWords(message)
}

// parseNumberWords разбирает первое число записанное словами: "seven", "twenty-five", "twenty five"
func parseNumberWords(message string) (int, bool) {
	tokens := strings.Fields(strings.ReplaceAll(normalizeText4Match(message), "-", " "))
	for idx, token := range tokens {
		if tens, ok := tensWords[token]; ok {
			if idx+1 < len(tokens) {
				if unit, ok := unitWords[tokens[idx+1]]; ok && unit > 0 && unit < 10 {
					return tens + unit, true
				}
			}
			return tens, true
		}
		if unit, ok := unitWords[token]; ok {
			return unit, true
		}
	}
	return 0, false
}

// cleanValue убирает лишние пробелы, кавычки и завершающую пунктуацию
func cleanValue(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, "\"'`«»")
	s = strings.TrimRight(s, ".!?,;: ")
	return strings.TrimSpace(s)
}

// stripLeading убирает вводные фразы в начале ответа, регистр остального текста сохраняется
func stripLeading(s string, fillers []string) string {
	for {
		lower := strings.ToLower(s)
		stripped := false
		for _, filler := range fillers {
			if lower == filler {
				return ""
			}
			if strings.HasPrefix(lower, filler) {
				rest := s[len(filler):]
				if rest == "" || strings.ContainsRune(" ,:=-", rune(rest[0])) {
					s = strings.TrimLeft(rest, " ,:=-")
					stripped = true
					break
				}
			}
		}
		if !stripped {
			return s
		}
	}
}
