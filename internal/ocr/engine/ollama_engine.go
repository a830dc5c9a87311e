package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Alias-z/FungariumOCR/internal/logger"
	"github.com/ollama/ollama/api"
)

const defaultOllamaBaseURL = "http://localhost:11434"

type OllamaEngine struct {
	client *api.Client
}

func NewOllamaEngine(opts Options) (*OllamaEngine, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama base url %q: %w", baseURL, err)
	}

	return &OllamaEngine{client: api.NewClient(u, &http.Client{})}, nil
}

func (o *OllamaEngine) ProcessImage(ctx context.Context, req Request) (json.RawMessage, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model: req.Model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: req.Prompt,
				Images:  []api.ImageData{req.Image},
			},
		},
		Stream: &stream,
	}
	if req.Schema != nil {
		format, err := json.Marshal(req.Schema)
		if err != nil {
			return nil, fmt.Errorf("marshaling response schema: %w", err)
		}
		chatReq.Format = format
	} else {
		chatReq.Format = json.RawMessage(`"json"`)
	}

	logger.DebugLog("[ollama]: sending %s to model %s", req.ImageName, req.Model)
	var content bytes.Buffer
	err := o.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat for %s: %w", req.ImageName, err)
	}
	if content.Len() == 0 {
		return nil, fmt.Errorf("ollama chat for %s: %w", req.ImageName, ErrEmptyResponse)
	}

	if json.Valid(content.Bytes()) {
		return json.RawMessage(content.Bytes()), nil
	}
	jsonObj, err := extractJSON(content.String())
	if err != nil {
		return nil, fmt.Errorf("failed to extract JSON from response: %w", err)
	}
	return jsonObj, nil
}

func (o *OllamaEngine) Close() error {
	return nil
}

// extractJSON returns the first JSON object embedded in free text. The
// text is decoded as is, so escapes and braces inside strings survive. A
// truncated object ends the search rather than yielding a nested one.
func extractJSON(input string) (json.RawMessage, error) {
	logger.DebugLog("[ollama]: extracting JSON from input: %s", input)

	var lastErr error
	for offset := 0; offset < len(input); {
		start := strings.IndexByte(input[offset:], '{')
		if start == -1 {
			break
		}
		start += offset

		var obj json.RawMessage
		err := json.NewDecoder(strings.NewReader(input[start:])).Decode(&obj)
		if err == nil {
			return obj, nil
		}
		lastErr = err
		if errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		offset = start + 1
	}

	if lastErr != nil {
		return nil, fmt.Errorf("extracted text is not valid JSON: %w", lastErr)
	}
	return nil, fmt.Errorf("no JSON found in text")
}
