package ocr

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Alias-z/FungariumOCR/internal/image"
	"github.com/Alias-z/FungariumOCR/internal/logger"
	"github.com/Alias-z/FungariumOCR/internal/ocr/engine"
)

const (
	DefaultModel  = "gpt-4o"
	DefaultDetail = "auto"
)

// Invoke runs OCR on a single image and decodes the reply into T.
// Read, service and decode errors are returned as is; nothing is retried.
func Invoke[T Schema](ctx context.Context, eng OCREngine, cfg Config, imagePath string) (T, error) {
	var result T

	img, err := image.Encode(imagePath)
	if err != nil {
		return result, err
	}

	req := BuildRequest[T](cfg, img)
	logger.DebugLog("[Invoke]: %s (%d bytes, %s) -> %s", img.Name, len(img.Data), img.MIMEType, req.Model)

	raw, err := eng.ProcessImage(ctx, req)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("decoding %s result for %s: %w", req.SchemaName, img.Name, err)
	}
	return result, nil
}

// BuildRequest assembles the single user message: system prompt, user
// prompt and the image name on separate lines, plus the inline image.
func BuildRequest[T Schema](cfg Config, img *image.Encoded) engine.Request {
	shape := ShapeOf[T]()
	if cfg.Shape != nil {
		shape = *cfg.Shape
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	detail := cfg.Detail
	if detail == "" {
		detail = DefaultDetail
	}

	return engine.Request{
		Model:      model,
		Prompt:     cfg.SystemPrompt + "\n" + cfg.UserPrompt + "\n" + "Image name: " + img.Name,
		ImageName:  img.Name,
		Image:      img.Data,
		Base64:     img.Base64,
		MIMEType:   img.MIMEType,
		Detail:     detail,
		SchemaName: shape.Name,
		Schema:     shape.Schema,
		Strict:     shape.Strict,
	}
}
