package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Alias-z/FungariumOCR/internal/logger"
	"google.golang.org/genai"
)

// GeminiEngine calls the Gemini API with the image as inline bytes and the
// response shape as a JSON schema.
type GeminiEngine struct {
	models *genai.Models
}

// NewGeminiEngine builds the client once. An empty APIKey lets genai read
// GEMINI_API_KEY or GOOGLE_API_KEY.
func NewGeminiEngine(ctx context.Context, opts Options) (*GeminiEngine, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiEngine{models: client.Models}, nil
}

func (g *GeminiEngine) ProcessImage(ctx context.Context, req Request) (json.RawMessage, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(req.Prompt),
			genai.NewPartFromBytes(req.Image, req.MIMEType),
		}, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if req.Schema != nil {
		cfg.ResponseJsonSchema = req.Schema
	}

	logger.DebugLog("[gemini]: sending %s to model %s", req.ImageName, req.Model)
	resp, err := g.models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content for %s: %w", req.ImageName, err)
	}

	text := candidateText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini generate content for %s: %w", req.ImageName, ErrEmptyResponse)
	}
	return json.RawMessage(text), nil
}

func (g *GeminiEngine) Close() error {
	return nil
}

// candidateText joins the non-thought text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}
