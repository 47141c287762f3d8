package tts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbase/jarvis-go/pkg/tts"
)

func TestSynthesizerFunc(t *testing.T) {
	var s tts.Synthesizer = tts.SynthesizerFunc(func(_ context.Context, text, lang string) ([]byte, error) {
		return []byte(lang + ":" + text), nil
	})

	audio, err := s.Synthesize(context.Background(), "hello", "en")
	require.NoError(t, err)
	assert.Equal(t, "en:hello", string(audio))
}

func TestEncodeBase64(t *testing.T) {
	assert.Equal(t, "", tts.EncodeBase64(nil))
	assert.Equal(t, "aGVsbG8=", tts.EncodeBase64([]byte("hello")))
}
