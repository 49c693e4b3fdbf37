package live

import "strings"

// Speaker identifies a transcript entry's side of the conversation.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerModel Speaker = "model"
)

// Entry is one committed transcript line. Entries are immutable once
// appended.
type Entry struct {
	Speaker Speaker
	Text    string
}

// turnAssembler accumulates transcription fragments for the in-flight turn
// and commits them as entries at the turn boundary. The user's utterance is
// always committed before the model's reply, regardless of how fragments
// interleaved on the wire.
type turnAssembler struct {
	pendingUser  strings.Builder
	pendingModel strings.Builder
	entries      []Entry
}

func (a *turnAssembler) AppendUser(text string) {
	a.pendingUser.WriteString(text)
}

func (a *turnAssembler) AppendModel(text string) {
	a.pendingModel.WriteString(text)
}

// FlushTurn commits the pending fragments, user side first. Sides with no
// text are skipped.
func (a *turnAssembler) FlushTurn() {
	if a.pendingUser.Len() > 0 {
		a.entries = append(a.entries, Entry{Speaker: SpeakerUser, Text: a.pendingUser.String()})
		a.pendingUser.Reset()
	}
	if a.pendingModel.Len() > 0 {
		a.entries = append(a.entries, Entry{Speaker: SpeakerModel, Text: a.pendingModel.String()})
		a.pendingModel.Reset()
	}
}

// Entries returns a copy of the committed transcript.
func (a *turnAssembler) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}
