package handler

import (
	"unicode/utf8"

	"SupportBot/model"
)

// validQuestion reports whether text is acceptable as a student
// question: non-empty and within the question limit.
func validQuestion(text string) bool {
	return validLength(text, model.MaxQuestionLength)
}

// validAnswer reports whether text is acceptable as a curator answer.
func validAnswer(text string) bool {
	return validLength(text, model.MaxAnswerLength)
}

// Limits count characters, not bytes, so Cyrillic input is measured
// the same way Telegram clients display it.
func validLength(text string, limit int) bool {
	if text == "" {
		return false
	}
	return utf8.RuneCountInString(text) <= limit
}

// truncate cuts text to limit characters, appending an ellipsis
// marker when anything was cut.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
