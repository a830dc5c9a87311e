package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Alias-z/FungariumOCR/internal/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIDetail = "auto"

// OpenAIEngine sends each image to the Chat Completions API and asks for a
// strict JSON-schema reply.
type OpenAIEngine struct {
	client openai.Client
}

// NewOpenAIEngine builds a client once; it is safe to reuse for every image.
// An empty APIKey falls back to OPENAI_API_KEY.
func NewOpenAIEngine(opts Options) *OpenAIEngine {
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	// No retries: a failed image aborts the batch.
	clientOpts = append(clientOpts, option.WithMaxRetries(0))

	return &OpenAIEngine{client: openai.NewClient(clientOpts...)}
}

func (o *OpenAIEngine) ProcessImage(ctx context.Context, req Request) (json.RawMessage, error) {
	params := buildChatParams(req)

	logger.DebugLog("[openai]: sending %s to model %s", req.ImageName, req.Model)
	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion for %s: %w", req.ImageName, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai chat completion for %s: %w", req.ImageName, ErrEmptyResponse)
	}

	msg := completion.Choices[0].Message
	if msg.Refusal != "" {
		return nil, fmt.Errorf("openai chat completion for %s: %w: %s", req.ImageName, ErrRefused, msg.Refusal)
	}
	if msg.Content == "" {
		return nil, fmt.Errorf("openai chat completion for %s: %w", req.ImageName, ErrEmptyResponse)
	}
	return json.RawMessage(msg.Content), nil
}

func (o *OpenAIEngine) Close() error {
	return nil
}

func buildChatParams(req Request) openai.ChatCompletionNewParams {
	detail := req.Detail
	if detail == "" {
		detail = defaultOpenAIDetail
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Text: req.Prompt,
			},
		},
		{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL:    req.DataURL(),
					Detail: detail,
				},
			},
		},
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
	}

	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(req.Strict),
				},
			},
		}
	}
	return params
}
