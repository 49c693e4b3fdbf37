package ui

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/retouch-ai/retouch/internal/config"
	"github.com/retouch-ai/retouch/pkg/canvas"
	"github.com/retouch-ai/retouch/pkg/edit"
	"github.com/retouch-ai/retouch/pkg/live"
)

// RunApp builds the main window and blocks until it closes. newConversation
// constructs the live conversation with the UI's callbacks wired in.
func RunApp(cfg config.Config, editor *edit.Service, newConversation func(live.Callbacks) *live.Conversation, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	a := app.New()
	win := a.NewWindow("Retouch Studio")
	win.Resize(fyne.NewSize(1280, 800))

	var undoBtn, redoBtn *widget.Button
	session := canvas.NewSession(logger, func(canUndo, canRedo bool) {
		if undoBtn == nil || redoBtn == nil {
			return
		}
		setEnabled(undoBtn, canUndo)
		setEnabled(redoBtn, canRedo)
	})
	session.SetBrushRadius(cfg.DefaultBrushRadius)
	mask := NewMaskWidget(session)

	// Source bytes of the currently loaded image, as sent to the edit API.
	var srcData []byte
	var srcMIME string

	loadImage := func(data []byte, mimeType string) error {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}
		srcData = data
		srcMIME = mimeType
		mask.SetPhoto(img)
		return nil
	}

	openBtn := widget.NewButton("Open image", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, win)
				return
			}
			if reader == nil {
				return
			}
			defer reader.Close()
			data, err := io.ReadAll(reader)
			if err != nil {
				dialog.ShowError(err, win)
				return
			}
			mimeType := mimeFromName(reader.URI().Name())
			if err := loadImage(data, mimeType); err != nil {
				dialog.ShowError(err, win)
				return
			}
			logger.Info("image loaded", "name", reader.URI().Name(), "bytes", len(data))
		}, win)
	})

	undoBtn = widget.NewButton("Undo", func() {
		session.Undo()
		mask.Refresh()
	})
	redoBtn = widget.NewButton("Redo", func() {
		session.Redo()
		mask.Refresh()
	})
	clearBtn := widget.NewButton("Clear mask", func() {
		session.ClearMask()
		mask.Refresh()
	})
	undoBtn.Disable()
	redoBtn.Disable()

	brush := widget.NewSlider(4, 80)
	brush.Value = cfg.DefaultBrushRadius
	brush.OnChanged = session.SetBrushRadius

	instruction := widget.NewEntry()
	instruction.SetPlaceHolder("Describe the edit, e.g. \"remove the person on the left\"")

	var generateBtn *widget.Button
	generateBtn = widget.NewButton("Generate", func() {
		if len(srcData) == 0 {
			dialog.ShowError(fmt.Errorf("open an image first"), win)
			return
		}
		req := edit.Request{
			Image:       srcData,
			MIMEType:    srcMIME,
			Instruction: instruction.Text,
		}
		if maskPNG, err := maskPNGBytes(session); err == nil {
			req.Mask = maskPNG
		}
		generateBtn.Disable()
		go func() {
			result, err := editor.EditImage(context.Background(), req)
			fyne.Do(func() {
				generateBtn.Enable()
				if err != nil {
					dialog.ShowError(err, win)
					return
				}
				if err := loadImage(result.Data, result.MIMEType); err != nil {
					dialog.ShowError(err, win)
				}
			})
		}()
	})

	var conv *live.Conversation
	panel := NewVoicePanel(
		func() {
			go func() { _ = conv.Start(context.Background()) }()
		},
		func() {
			go conv.Stop()
		},
	)
	conv = newConversation(live.Callbacks{
		OnStatus:     panel.SetStatus,
		OnTranscript: panel.SetTranscript,
	})

	toolbar := container.NewHBox(openBtn, undoBtn, redoBtn, clearBtn,
		widget.NewLabel("Brush"))
	top := container.NewBorder(nil, nil, toolbar, nil, brush)
	bottom := container.NewBorder(nil, nil, nil, generateBtn, instruction)
	right := panel.Object()

	win.SetContent(container.NewBorder(top, bottom, nil, right, mask))
	win.SetOnClosed(func() {
		conv.Stop()
	})
	win.ShowAndRun()
}

// maskPNGBytes exports the current mask and strips the data-URI wrapper.
func maskPNGBytes(session *canvas.Session) ([]byte, error) {
	uri, err := session.MaskAsBase64()
	if err != nil {
		return nil, err
	}
	const prefix = "data:image/png;base64,"
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
}

func mimeFromName(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".jpg"),
		strings.HasSuffix(strings.ToLower(name), ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(strings.ToLower(name), ".webp"):
		return "image/webp"
	default:
		return "image/png"
	}
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
