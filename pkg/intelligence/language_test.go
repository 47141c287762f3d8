package intelligence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oceanbase/jarvis-go/pkg/intelligence"
)

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		text string
		want intelligence.Locale
	}{
		{"", intelligence.LocaleEnglish},
		{"hello there", intelligence.LocaleEnglish},
		{"नमस्ते", intelligence.LocaleHindi},
		{"my name is राहुल", intelligence.LocaleHindi},
		{"\u0900", intelligence.LocaleHindi},
		{"\u097F", intelligence.LocaleHindi},
		{"ঀ bengali", intelligence.LocaleEnglish},
		{"こんにちは", intelligence.LocaleEnglish},
		{"ünïcödé", intelligence.LocaleEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, intelligence.DetectLocale(tt.text))
		})
	}
}
