package gateway

import "encoding/json"

// Inbound event names.
const (
	EventStartStream = "start_stream"
	EventLoadHistory = "load_history"
	EventListMemory  = "list_memory"
)

// Outbound event names.
const (
	EventLLMToken   = "llm_token"
	EventAudioChunk = "audio_chunk"
	EventStreamDone = "stream_done"
	EventHistory    = "history"
	EventMemoryList = "memory_list"
)

// Envelope is the frame carried by every WebSocket text message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// StartStream is the payload of start_stream.
type StartStream struct {
	Message string `json:"message"`
}

// Token is the payload of llm_token.
type Token struct {
	Token string `json:"token"`
}

// AudioChunk is the payload of audio_chunk.
type AudioChunk struct {
	AudioB64 string `json:"audio_b64"`
}
