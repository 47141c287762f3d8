// Package gtts synthesizes speech with the Google Translate text-to-speech endpoint.
//
// Long text is split into chunks the endpoint accepts; the MP3 responses are
// concatenated into a single buffer.
package gtts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBaseURL is the translate_tts endpoint.
const DefaultBaseURL = "https://translate.google.com/translate_tts"

// maxChunkRunes is the longest text the endpoint accepts per request.
const maxChunkRunes = 100

// Client is a Google Translate TTS client. It implements tts.Synthesizer.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Config is the configuration for the Google Translate TTS client.
// BaseURL: endpoint URL, defaults to DefaultBaseURL
// Timeout: per-request timeout, defaults to 30s
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new Google Translate TTS client.
func NewClient(cfg *Config) *Client {
	baseURL := DefaultBaseURL
	timeout := 30 * time.Second
	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Synthesize renders text as MP3 in lang ("en" or "hi").
func (c *Client) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	chunks := splitText(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("gtts: no text to speak")
	}

	var audio []byte
	for i, chunk := range chunks {
		data, err := c.fetch(ctx, chunk, lang, i, len(chunks))
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

func (c *Client) fetch(ctx context.Context, text, lang string, idx, total int) ([]byte, error) {
	params := url.Values{
		"ie":      {"UTF-8"},
		"client":  {"tw-ob"},
		"q":       {text},
		"tl":      {lang},
		"idx":     {strconv.Itoa(idx)},
		"total":   {strconv.Itoa(total)},
		"textlen": {strconv.Itoa(utf8.RuneCountInString(text))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gtts: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gtts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gtts: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gtts: read body: %w", err)
	}
	return data, nil
}

// splitText breaks text on whitespace into chunks of at most max runes.
// A single word longer than max is cut at rune boundaries.
func splitText(text string, max int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > max {
			flush()
			chunks = append(chunks, string(runes[:max]))
			runes = runes[max:]
		}
		if len(runes) == 0 {
			continue
		}

		need := len(runes)
		if currentLen > 0 {
			need++
		}
		if currentLen+need > max {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()

	return chunks
}
