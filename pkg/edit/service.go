// Package edit calls the remote generative image API: it sends an image, an
// optional mask, and a text instruction, and returns the edited image.
package edit

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/retouch-ai/retouch/pkg/core"
)

// generator is the slice of the genai client the service needs. Tests supply
// a scripted fake.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Request describes one edit: the source image, an optional black/white mask
// confining the edit region, and the instruction.
type Request struct {
	Image        []byte
	MIMEType     string
	Mask         []byte // PNG mask; nil for whole-image edits
	MaskMIMEType string // defaults to image/png
	Instruction  string
}

// Result is the edited image returned by the model.
type Result struct {
	Data     []byte
	MIMEType string
}

// BatchItem is the outcome for one image in a batch edit. Err is set when
// that image failed; siblings are unaffected.
type BatchItem struct {
	Index  int
	Result *Result
	Err    error
}

// Service edits images through a generative model.
type Service struct {
	logger *slog.Logger
	gen    generator
	model  string
}

// NewService opens a genai client against the Gemini API backend.
func NewService(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, core.NewInvalidRequestError("api key must not be empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, core.NewInvalidRequestError("model must not be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, core.NewTransportError("create genai client", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, gen: client.Models, model: model}, nil
}

// EditImage sends one edit request and returns the first image the model
// produces. The request parts go in a fixed order: image, mask when present,
// then the instruction text.
func (s *Service) EditImage(ctx context.Context, req Request) (*Result, error) {
	if len(req.Image) == 0 {
		return nil, core.NewInvalidRequestError("image must not be empty")
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, core.NewInvalidRequestError("instruction must not be empty")
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}

	parts := []*genai.Part{genai.NewPartFromBytes(req.Image, mimeType)}
	if len(req.Mask) > 0 {
		maskMIME := req.MaskMIMEType
		if maskMIME == "" {
			maskMIME = "image/png"
		}
		parts = append(parts, genai.NewPartFromBytes(req.Mask, maskMIME))
	}
	parts = append(parts, genai.NewPartFromText(req.Instruction))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	resp, err := s.gen.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, core.NewTransportError("generate content", err)
	}

	result := firstImage(resp)
	if result == nil {
		return nil, core.NewProcessingError("model returned no image")
	}
	s.logger.Debug("image edited", "model", s.model, "bytes", len(result.Data))
	return result, nil
}

// EditBatch applies the same mask and instruction to each image. A failure
// on one image is recorded in its item and does not abort the others.
func (s *Service) EditBatch(ctx context.Context, images [][]byte, mimeType string, mask []byte, instruction string) []BatchItem {
	items := make([]BatchItem, len(images))
	for i, img := range images {
		items[i].Index = i
		result, err := s.EditImage(ctx, Request{
			Image:       img,
			MIMEType:    mimeType,
			Mask:        mask,
			Instruction: instruction,
		})
		if err != nil {
			s.logger.Warn("batch item failed", "index", i, "error", err)
			items[i].Err = err
			continue
		}
		items[i].Result = result
	}
	return items
}

// firstImage scans the response for the first inline image part.
func firstImage(resp *genai.GenerateContentResponse) *Result {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			if !strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				continue
			}
			return &Result{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}
		}
	}
	return nil
}
