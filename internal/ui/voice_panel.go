package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/retouch-ai/retouch/pkg/live"
)

// VoicePanel shows the conversation controls, the status line, and the
// running transcript. Update methods are safe to call from any goroutine.
type VoicePanel struct {
	root    fyne.CanvasObject
	toggle  *widget.Button
	status  *widget.Label
	list    *widget.List
	entries []live.Entry

	onStart func()
	onStop  func()
	active  bool
}

// NewVoicePanel builds the panel. onStart and onStop run on the UI thread
// when the user toggles the conversation.
func NewVoicePanel(onStart, onStop func()) *VoicePanel {
	p := &VoicePanel{onStart: onStart, onStop: onStop}

	p.status = widget.NewLabel("Voice: idle")
	p.toggle = widget.NewButton("Start conversation", p.onToggle)
	p.list = widget.NewList(
		func() int { return len(p.entries) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Wrapping = fyne.TextWrapWord
			return label
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i < 0 || i >= len(p.entries) {
				return
			}
			e := p.entries[i]
			prefix := "You: "
			if e.Speaker == live.SpeakerModel {
				prefix = "Assistant: "
			}
			obj.(*widget.Label).SetText(prefix + e.Text)
		},
	)

	p.root = container.NewBorder(
		container.NewVBox(p.toggle, p.status),
		nil, nil, nil,
		p.list,
	)
	return p
}

// Object returns the panel's root canvas object.
func (p *VoicePanel) Object() fyne.CanvasObject { return p.root }

func (p *VoicePanel) onToggle() {
	if p.active {
		p.onStop()
	} else {
		p.onStart()
	}
}

// SetStatus reflects the conversation state on the status line and toggle.
func (p *VoicePanel) SetStatus(st live.Status) {
	fyne.Do(func() {
		p.status.SetText("Voice: " + string(st))
		switch st {
		case live.StatusConnecting:
			p.active = true
			p.toggle.SetText("Connecting…")
			p.toggle.Disable()
		case live.StatusActive:
			p.active = true
			p.toggle.SetText("Stop conversation")
			p.toggle.Enable()
		default:
			p.active = false
			p.toggle.SetText("Start conversation")
			p.toggle.Enable()
		}
	})
}

// SetTranscript replaces the displayed transcript and scrolls to the newest
// entry.
func (p *VoicePanel) SetTranscript(entries []live.Entry) {
	fyne.Do(func() {
		p.entries = entries
		p.list.Refresh()
		if len(entries) > 0 {
			p.list.ScrollToBottom()
		}
	})
}
