package flow

import (
	"strings"
	"unicode"
)

type Intent string

const (
	IntentRepeat       Intent = "repeat"
	IntentExamples     Intent = "examples"
	IntentClarify      Intent = "clarify"
	IntentConfirmReady Intent = "confirm_ready"
	IntentNotReady     Intent = "not_ready"
	IntentAnswer       Intent = "answer"
	IntentCorrection   Intent = "correction"
)

var repeatPhrases = []string{
	"repeat", "say that again", "say it again", "come again", "pardon", "didn't hear",
	"did not hear", "didn't catch", "did not catch", "one more time", "what was the question",
	"sorry what",
}

var examplesPhrases = []string{
	"example", "examples", "for instance", "what are the options", "what options",
	"which options", "give me options", "what can i choose", "what could i say", "suggestions",
	"suggest",
}

var clarifyPhrases = []string{
	"what do you mean", "what does that mean", "clarify", "don't understand", "do not understand",
	"not sure what", "explain", "what is meant", "meaning of", "confused", "i don't get",
}

var confirmPhrases = []string{
	"yes", "yeah", "yep", "yup", "sure", "ready", "i am ready", "i'm ready", "let's go",
	"lets go", "let's start", "lets start", "start", "ok", "okay", "of course", "absolutely",
	"go ahead", "sounds good", "begin", "no problem",
}

var notReadyPhrases = []string{
	"not ready", "not yet", "later", "hold on", "give me a moment",
	"give me a minute", "one moment", "one sec", "wait", "not now",
}

// отказ только если сообщение с него начинается или в нем нет подтверждения
var refusalWords = []string{"no", "nope", "nah"}

// обороты с "no", которые не означают отказ
var agreeingNoPhrases = []string{"no problem", "no problems", "no worries", "no doubt"}

// normalizeText4Match нижний регистр, пунктуация заменена пробелами, единичные пробелы
func normalizeText4Match(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-' {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// containsPhrase совпадение по границам слов
func containsPhrase(normalized string, phrases []string) bool {
	padded := " " + normalized + " "
	for _, phrase := range phrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return true
		}
	}
	return false
}

// ClassifyIntent определяет намерение пользователя для текущего поля
func ClassifyIntent(current Field, message string) Intent {
	normalized := normalizeText4Match(message)
	if normalized == "" {
		return IntentClarify
	}
	if containsPhrase(normalized, repeatPhrases) {
		return IntentRepeat
	}
	// "React, for example" это ответ, а не просьба привести пример
	if isQuestionLike(message, normalized) && containsPhrase(normalized, examplesPhrases) {
		return IntentExamples
	}
	if containsPhrase(normalized, clarifyPhrases) {
		return IntentClarify
	}
	if current == FieldReadiness {
		confirmed := containsPhrase(normalized, confirmPhrases)
		if isNotReady(normalized, confirmed) {
			return IntentNotReady
		}
		if confirmed {
			return IntentConfirmReady
		}
		return IntentClarify
	}
	if isPause(normalized) {
		return IntentNotReady
	}
	return IntentAnswer
}

func isNotReady(normalized string, confirmed bool) bool {
	if containsPhrase(normalized, notReadyPhrases) {
		return true
	}
	rest := removePhrases(normalized, agreeingNoPhrases)
	for _, word := range refusalWords {
		if rest == word || strings.HasPrefix(rest, word+" ") {
			return true
		}
	}
	return !confirmed && containsPhrase(rest, refusalWords)
}

// removePhrases вырезает фразы по границам слов
func removePhrases(normalized string, phrases []string) string {
	padded := " " + normalized + " "
	for _, phrase := range phrases {
		padded = strings.ReplaceAll(padded, " "+phrase+" ", " ")
	}
	return strings.TrimSpace(padded)
}

var questionStarts = []string{"can you", "could you", "give me", "what", "which", "any", "some", "show me", "do you have", "i need"}

func isQuestionLike(message, normalized string) bool {
	if strings.Contains(message, "?") {
		return true
	}
	for _, start := range questionStarts {
		if strings.HasPrefix(normalized, start) {
			return true
		}
	}
	return normalized == "example" || normalized == "examples" || normalized == "options"
}

// isPause просьба подождать вне шага готовности, короткие фразы целиком
func isPause(normalized string) bool {
	for _, phrase := range []string{"hold on", "wait", "give me a moment", "give me a minute", "one moment", "one sec", "not yet"} {
		if normalized == phrase || strings.HasPrefix(normalized, phrase+" please") {
			return true
		}
	}
	return false
}
