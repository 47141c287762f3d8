package intelligence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oceanbase/jarvis-go/pkg/intelligence"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want intelligence.Command
	}{
		{"plain question", "what is my name", intelligence.Command{Intent: intelligence.IntentConverse}},
		{"forget key", "forget favorite color", intelligence.Command{Intent: intelligence.IntentForget, Key: "favorite color"}},
		{"forget mixed case", "Forget My NAME", intelligence.Command{Intent: intelligence.IntentForget, Key: "my name"}},
		{"forget tab", "forget\tname", intelligence.Command{Intent: intelligence.IntentForget, Key: "name"}},
		{"forget without space", "forgetful people", intelligence.Command{Intent: intelligence.IntentConverse}},
		{"forget alone", "forget", intelligence.Command{Intent: intelligence.IntentForget}},
		{"forget alone upper", "FORGET", intelligence.Command{Intent: intelligence.IntentForget}},
		{"forget not at start", "please forget name", intelligence.Command{Intent: intelligence.IntentConverse}},
		{"save it", "save it", intelligence.Command{Intent: intelligence.IntentSave}},
		{"remember this", "Please REMEMBER THIS for later", intelligence.Command{Intent: intelligence.IntentSave}},
		{"store it", "ok store it", intelligence.Command{Intent: intelligence.IntentSave}},
		{"save in memory", "save in memory", intelligence.Command{Intent: intelligence.IntentSave}},
		{"forget beats save", "forget save it", intelligence.Command{Intent: intelligence.IntentForget, Key: "save it"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intelligence.Classify(tt.text))
		})
	}
}

func TestIsForgetCommand(t *testing.T) {
	assert.True(t, intelligence.IsForgetCommand("forget x"))
	assert.True(t, intelligence.IsForgetCommand("FORGET x"))
	assert.True(t, intelligence.IsForgetCommand("forget  "))
	assert.True(t, intelligence.IsForgetCommand("forget"))
	assert.False(t, intelligence.IsForgetCommand("forgot it"))
	assert.False(t, intelligence.IsForgetCommand("forgets"))
}

func TestExtractForgetKey(t *testing.T) {
	assert.Equal(t, "", intelligence.ExtractForgetKey("forget   "))
	assert.Equal(t, "name", intelligence.ExtractForgetKey("FORGET name"))
	// Only the first occurrence is removed.
	assert.Equal(t, "what to forget", intelligence.ExtractForgetKey("forget what to forget"))
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "converse", intelligence.IntentConverse.String())
	assert.Equal(t, "forget", intelligence.IntentForget.String())
	assert.Equal(t, "save", intelligence.IntentSave.String())
}
