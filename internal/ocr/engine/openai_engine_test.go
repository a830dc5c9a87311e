package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletion(content, refusal string) map[string]any {
	msg := map[string]any{"role": "assistant", "content": content}
	if refusal != "" {
		msg["refusal"] = refusal
	}
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o",
		"choices": []map[string]any{
			{"index": 0, "finish_reason": "stop", "message": msg},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func newOpenAIStub(t *testing.T, reply map[string]any, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
}

func sampleRequest() Request {
	return Request{
		Model:      "gpt-4o",
		Prompt:     "system\nuser\nImage name: sample.jpg",
		ImageName:  "sample.jpg",
		Image:      []byte{0xff, 0xd8, 0xff},
		Base64:     "/9j/",
		MIMEType:   "image/jpeg",
		Detail:     "auto",
		SchemaName: "fungarium_label",
		Schema:     map[string]any{"type": "object", "additionalProperties": false},
		Strict:     true,
	}
}

func TestOpenAIEngine_ProcessImage(t *testing.T) {
	var captured map[string]any
	srv := newOpenAIStub(t, chatCompletion(`{"image_name":"sample.jpg","scientific_name":"Quercus robur"}`, ""), &captured)
	defer srv.Close()

	eng := NewOpenAIEngine(Options{APIKey: "test-key", BaseURL: srv.URL})
	defer eng.Close()

	out, err := eng.ProcessImage(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"image_name":"sample.jpg","scientific_name":"Quercus robur"}`, string(out))

	assert.Equal(t, "gpt-4o", captured["model"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])

	parts := msg["content"].([]any)
	require.Len(t, parts, 2)
	text := parts[0].(map[string]any)
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "system\nuser\nImage name: sample.jpg", text["text"])

	img := parts[1].(map[string]any)
	assert.Equal(t, "image_url", img["type"])
	imageURL := img["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,/9j/", imageURL["url"])
	assert.Equal(t, "auto", imageURL["detail"])

	format := captured["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "fungarium_label", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestOpenAIEngine_DefaultDetail(t *testing.T) {
	req := sampleRequest()
	req.Detail = ""

	params := buildChatParams(req)
	part := params.Messages[0].OfUser.Content.OfArrayOfContentParts[1]
	require.NotNil(t, part.OfImageURL)
	assert.Equal(t, "auto", part.OfImageURL.ImageURL.Detail)
}

func TestOpenAIEngine_Failures(t *testing.T) {
	t.Run("refusal", func(t *testing.T) {
		srv := newOpenAIStub(t, chatCompletion("", "I cannot help with that."), nil)
		defer srv.Close()

		eng := NewOpenAIEngine(Options{APIKey: "test-key", BaseURL: srv.URL})
		_, err := eng.ProcessImage(context.Background(), sampleRequest())
		require.ErrorIs(t, err, ErrRefused)
	})

	t.Run("no choices", func(t *testing.T) {
		reply := chatCompletion("", "")
		reply["choices"] = []map[string]any{}
		srv := newOpenAIStub(t, reply, nil)
		defer srv.Close()

		eng := NewOpenAIEngine(Options{APIKey: "test-key", BaseURL: srv.URL})
		_, err := eng.ProcessImage(context.Background(), sampleRequest())
		require.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("unauthorized", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
		}))
		defer srv.Close()

		eng := NewOpenAIEngine(Options{APIKey: "bad-key", BaseURL: srv.URL})
		_, err := eng.ProcessImage(context.Background(), sampleRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sample.jpg")
		assert.Equal(t, 1, calls, "requests must not be retried")
	})
}
