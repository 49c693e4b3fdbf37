package live

import (
	"encoding/json"
	"testing"
)

func TestDecodeServerMessage_SetupComplete(t *testing.T) {
	msg, err := DecodeServerMessage([]byte(`{"setupComplete":{}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.SetupComplete == nil {
		t.Fatal("SetupComplete not decoded")
	}
	if msg.ServerContent != nil {
		t.Fatal("unexpected ServerContent")
	}
}

func TestDecodeServerMessage_ContentFields(t *testing.T) {
	raw := `{"serverContent":{
		"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"AAAA"}}]},
		"inputTranscription":{"text":"he"},
		"outputTranscription":{"text":"hi"},
		"turnComplete":true,
		"interrupted":true}}`
	msg, err := DecodeServerMessage([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	sc := msg.ServerContent
	if sc == nil {
		t.Fatal("ServerContent not decoded")
	}
	if !sc.TurnComplete || !sc.Interrupted {
		t.Fatalf("flags: turnComplete=%v interrupted=%v", sc.TurnComplete, sc.Interrupted)
	}
	if sc.InputTranscription.Text != "he" || sc.OutputTranscription.Text != "hi" {
		t.Fatalf("transcriptions: %q %q", sc.InputTranscription.Text, sc.OutputTranscription.Text)
	}
	if len(sc.ModelTurn.Parts) != 1 || sc.ModelTurn.Parts[0].InlineData.Data != "AAAA" {
		t.Fatalf("model turn parts: %+v", sc.ModelTurn)
	}
	if sc.ModelTurn.Parts[0].InlineData.MIMEType != "audio/pcm;rate=24000" {
		t.Fatalf("mime: %q", sc.ModelTurn.Parts[0].InlineData.MIMEType)
	}
}

func TestDecodeServerMessage_Malformed(t *testing.T) {
	if _, err := DecodeServerMessage([]byte(`{"serverContent":`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestClientMessage_RealtimeInputShape(t *testing.T) {
	msg := ClientMessage{RealtimeInput: &RealtimeInput{
		MediaChunks: []MediaChunk{{MIMEType: "audio/pcm;rate=16000", Data: "UENN"}},
	}}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"realtimeInput":{"mediaChunks":[{"mimeType":"audio/pcm;rate=16000","data":"UENN"}]}}`
	if string(data) != want {
		t.Fatalf("wire shape:\n got %s\nwant %s", data, want)
	}
}

func TestClientMessage_SetupShape(t *testing.T) {
	data, err := json.Marshal(ClientMessage{Setup: &Setup{Model: "gemini-live"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"setup":{"model":"gemini-live"}}`
	if string(data) != want {
		t.Fatalf("wire shape:\n got %s\nwant %s", data, want)
	}
}
