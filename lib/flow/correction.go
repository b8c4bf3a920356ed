package flow

import (
	"regexp"
	"strings"
)

var correctionTriggers = []string{
	"actually", "i meant", "i mean", "correction", "change the", "change my", "sorry",
	"make it", "instead", "update the", "update my", "let me change", "wait",
}

var fieldKeywords = map[Field][]string{
	FieldRole:          {"job title", "position", "role", "job"},
	FieldInterviewType: {"interview type", "type of interview", "type"},
	FieldLevel:         {"experience level", "seniority", "level"},
	FieldTechStack:     {"tech stack", "techstack", "technologies", "technology", "stack"},
	FieldAmount:        {"number of questions", "amount", "questions", "how many"},
}

// значения, по которым поле узнается без ключевого слова: "actually, make it behavioral"
var valueHints = map[Field][]string{
	FieldInterviewType: {"behavioral", "behavioural", "technical", "mixed"},
	FieldLevel:         {"intern", "junior", "middle", "mid", "senior", "lead", "principal", "staff"},
}

var correctionFillers = []string{
	"is", "was", "should be", "to be", "be", "to", "as", "of", "it's", "it is", "set it to",
	"change it to", "the", "my", "a", "an", "please", "from", "i want", "i'd like", "i would like",
}

var (
	keywordRes   = map[string]*regexp.Regexp{}
	trailingNegR = regexp.MustCompile(`(?i)[,]?\s+(?:not|instead of|rather than)\s+.*$`)
)

func init() {
	for _, list := range fieldKeywords {
		for _, kw := range list {
			keywordRes[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	for _, list := range valueHints {
		for _, kw := range list {
			keywordRes[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
}

// correction найденное исправление поля
type correction struct {
	Field Field
	Raw   string
	// Deferred исправление поля, до которого сценарий еще не дошел
	Deferred bool
}

// явные просьбы изменить значение, только они распознаются для еще не собранных полей
var changeTriggers = []string{
	"change the", "change my", "update the", "update my", "let me change", "make it", "set the",
}

func hasCorrectionTrigger(normalized string) bool {
	return containsPhrase(normalized, correctionTriggers)
}

// detectCorrection ищет в сообщении упоминание поля вместе с фразой-исправлением.
// Учитываются только уже собранные поля и текущее, из них выбирается самое раннее упоминание.
// Если таких нет, явная просьба изменить еще не собранное поле возвращается как Deferred.
func detectCorrection(message string, state State) (correction, bool) {
	normalized := normalizeText4Match(message)
	if !hasCorrectionTrigger(normalized) {
		return correction{}, false
	}
	// вопросы и просьбы повторить исправлением не считаются
	if strings.Contains(message, "?") || containsPhrase(normalized, repeatPhrases) || containsPhrase(normalized, clarifyPhrases) {
		return correction{}, false
	}
	found := false
	best := correction{}
	bestPos := len(message) + 1
	deferred := correction{}
	deferredPos := len(message) + 1
	for _, f := range Order {
		reached := f == state.Current || state.Payload.Has(f)
		for _, kw := range fieldKeywords[f] {
			loc := keywordRes[kw].FindStringIndex(message)
			if loc == nil {
				continue
			}
			if !reached {
				if loc[0] < deferredPos {
					deferred = correction{Field: f, Deferred: true}
					deferredPos = loc[0]
				}
				continue
			}
			if loc[0] >= bestPos {
				continue
			}
			raw := extractCorrectionValue(message, loc[0], loc[1])
			if raw == "" {
				continue
			}
			best = correction{Field: f, Raw: raw}
			bestPos = loc[0]
			found = true
		}
		if !reached {
			continue
		}
		for _, hint := range valueHints[f] {
			loc := keywordRes[hint].FindStringIndex(message)
			if loc == nil || loc[0] >= bestPos {
				continue
			}
			best = correction{Field: f, Raw: message[loc[0]:loc[1]]}
			bestPos = loc[0]
			found = true
		}
	}
	if found {
		return best, true
	}
	if deferredPos <= len(message) && containsPhrase(normalized, changeTriggers) {
		return deferred, true
	}
	return correction{}, false
}

// extractCorrectionValue значение после ключевого слова ("level is senior"),
// либо перед ним ("make it 10 questions")
func extractCorrectionValue(message string, kwStart, kwEnd int) string {
	after := trailingNegR.ReplaceAllString(message[kwEnd:], "")
	after = stripLeading(strings.TrimLeft(cleanValue(after), " ,:=-"), correctionFillers)
	if after != "" {
		return after
	}
	before := cleanValue(message[:kwStart])
	before = stripLeading(before, append(append([]string{}, correctionTriggers...), correctionFillers...))
	return cleanValue(before)
}

// stripTriggers убирает фразы-исправления в начале обычного ответа: "sorry, backend" -> "backend"
func stripTriggers(message string) string {
	return stripLeading(strings.TrimSpace(message), correctionTriggers)
}
