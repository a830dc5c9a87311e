package ocr

import (
	"context"
	"fmt"

	"github.com/Alias-z/FungariumOCR/internal/ocr/engine"
)

const (
	EngineOpenAI    = "openai"
	EngineGemini    = "gemini"
	EngineOllama    = "ollama"
	EngineTesseract = "tesseract"
)

// DefaultModels maps each engine to the model used when none is configured.
var DefaultModels = map[string]string{
	EngineOpenAI:    "gpt-4o",
	EngineGemini:    "gemini-2.0-flash",
	EngineOllama:    "llama3.2-vision",
	EngineTesseract: "tesseract",
}

func NewEngine(ctx context.Context, engineType string, opts engine.Options) (OCREngine, error) {
	var e OCREngine
	var err error

	switch engineType {
	case EngineOpenAI, "":
		e = engine.NewOpenAIEngine(opts)
	case EngineGemini:
		e, err = engine.NewGeminiEngine(ctx, opts)
	case EngineOllama:
		e, err = engine.NewOllamaEngine(opts)
	case EngineTesseract, "gosseract":
		e, err = engine.NewGosseractEngine(opts)
	default:
		return nil, fmt.Errorf("unknown engine type: %s", engineType)
	}
	if err != nil {
		return nil, err
	}

	return e, nil
}
