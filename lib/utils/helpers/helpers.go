package helpers

import (
	"context"
	"unicode/utf8"
)

// HeaderLogIgnore заголовок ответа, при наличии тела запроса и ответа не логируются
const HeaderLogIgnore = "X-Log-Ignore"

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// Truncate обрезает строку до max байт по границе символа
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
