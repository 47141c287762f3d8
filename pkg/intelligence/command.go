package intelligence

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Intent is the classified purpose of an inbound message.
type Intent int

const (
	// IntentConverse is the default: answer from memory or the model.
	IntentConverse Intent = iota

	// IntentForget deletes matching memory facts.
	IntentForget

	// IntentSave extracts a fact from the previous message and stores it.
	IntentSave
)

// String returns the intent name used in logs.
func (i Intent) String() string {
	switch i {
	case IntentForget:
		return "forget"
	case IntentSave:
		return "save"
	default:
		return "converse"
	}
}

const forgetWord = "forget"

// savePhrases trigger the save intent when found anywhere in the message.
var savePhrases = []string{"save it", "remember this", "store it", "save in memory"}

// Command is the result of classifying a message.
type Command struct {
	// Intent is the classified intent.
	Intent Intent

	// Key is the forget target (lower-cased). Empty for an ambiguous forget
	// and for the other intents.
	Key string
}

// IsForgetCommand reports whether text starts with "forget" followed by
// whitespace, ignoring case. The bare word "forget" also counts, so that an
// already-trimmed message can still reach the ambiguous forget reply.
func IsForgetCommand(text string) bool {
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, forgetWord) {
		return false
	}
	rest := lower[len(forgetWord):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r)
}

// ExtractForgetKey removes the first "forget" from the lower-cased text and
// trims the remainder.
func ExtractForgetKey(text string) string {
	return strings.TrimSpace(strings.Replace(strings.ToLower(text), forgetWord, "", 1))
}

// IsSaveCommand reports whether text contains one of the save phrases, ignoring case.
func IsSaveCommand(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range savePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Classify matches text against the commands in fixed order: forget, then
// save, then converse.
func Classify(text string) Command {
	if IsForgetCommand(text) {
		return Command{Intent: IntentForget, Key: ExtractForgetKey(text)}
	}
	if IsSaveCommand(text) {
		return Command{Intent: IntentSave}
	}
	return Command{Intent: IntentConverse}
}
