// Package live implements the live voice conversation: the websocket wire
// protocol, the transport, the transcript assembler, and the conversation
// state machine tying them to the audio pipeline.
package live

import (
	"encoding/json"
	"fmt"
)

// ClientMessage is the envelope for every outbound websocket frame. Exactly
// one field is set per message.
type ClientMessage struct {
	Setup         *Setup         `json:"setup,omitempty"`
	RealtimeInput *RealtimeInput `json:"realtimeInput,omitempty"`
}

// Setup opens a session and names the model. It must be the first frame.
type Setup struct {
	Model string `json:"model"`
}

// RealtimeInput streams captured audio upstream.
type RealtimeInput struct {
	MediaChunks []MediaChunk `json:"mediaChunks"`
}

// MediaChunk is one base64 media payload with its MIME shape.
type MediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ServerMessage is the envelope for every inbound websocket frame.
type ServerMessage struct {
	SetupComplete *SetupComplete `json:"setupComplete,omitempty"`
	ServerContent *ServerContent `json:"serverContent,omitempty"`
}

// SetupComplete acknowledges the setup frame.
type SetupComplete struct{}

// ServerContent carries model output and conversation signals.
type ServerContent struct {
	ModelTurn           *ModelTurn     `json:"modelTurn,omitempty"`
	InputTranscription  *Transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *Transcription `json:"outputTranscription,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
}

// ModelTurn holds the model's output parts for the current turn.
type ModelTurn struct {
	Parts []Part `json:"parts"`
}

// Part is one piece of model output. Audio arrives as inline data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData is a base64 payload, typically 24 kHz PCM audio.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Transcription is a fragment of speech-to-text output.
type Transcription struct {
	Text string `json:"text"`
}

// DecodeServerMessage decodes one inbound text frame.
func DecodeServerMessage(data []byte) (*ServerMessage, error) {
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode server message: %w", err)
	}
	return &msg, nil
}
