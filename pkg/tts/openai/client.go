// Package openai synthesizes speech with the OpenAI audio speech API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// Client is an OpenAI speech client. It implements tts.Synthesizer.
type Client struct {
	client *openai.Client
	model  openai.SpeechModel
	voices map[string]openai.SpeechVoice
	voice  openai.SpeechVoice
}

// Config is the configuration for OpenAI speech synthesis.
// APIKey: API key (required)
// BaseURL: API base URL, defaults to OpenAI official address
// Model: speech model, defaults to "tts-1"
// Voice: default voice, defaults to "alloy"
// LangVoices: per-language voice overrides, e.g. {"hi": "nova"}
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Voice      string
	LangVoices map[string]string
}

// NewClient creates a new OpenAI speech client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai tts: api key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := openai.TTSModel1
	if cfg.Model != "" {
		model = openai.SpeechModel(cfg.Model)
	}

	voice := openai.VoiceAlloy
	if cfg.Voice != "" {
		voice = openai.SpeechVoice(cfg.Voice)
	}

	voices := make(map[string]openai.SpeechVoice, len(cfg.LangVoices))
	for lang, v := range cfg.LangVoices {
		if v != "" {
			voices[lang] = openai.SpeechVoice(v)
		}
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
		voices: voices,
		voice:  voice,
	}, nil
}

// Synthesize renders text as MP3. The model detects the spoken language
// itself; lang only selects the voice.
func (c *Client) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	voice, ok := c.voices[lang]
	if !ok {
		voice = c.voice
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai tts: %w", err)
	}
	defer func() { _ = resp.Close() }()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai tts: read audio: %w", err)
	}
	return audio, nil
}
