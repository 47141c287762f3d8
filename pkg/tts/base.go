// Package tts provides the speech synthesis abstraction used for replies.
package tts

import (
	"context"
	"encoding/base64"
)

// Synthesizer turns reply text into a complete audio buffer.
type Synthesizer interface {
	// Synthesize renders text in the given language (e.g. "en", "hi").
	// The result is one complete encoded audio file (MP3 for the bundled clients).
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// SynthesizerFunc adapts a function to the Synthesizer interface.
type SynthesizerFunc func(ctx context.Context, text, lang string) ([]byte, error)

// Synthesize calls f.
func (f SynthesizerFunc) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	return f(ctx, text, lang)
}

// EncodeBase64 encodes audio for transport inside a JSON event.
func EncodeBase64(audio []byte) string {
	return base64.StdEncoding.EncodeToString(audio)
}
