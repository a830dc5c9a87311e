package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Alias-z/FungariumOCR/internal/logger"
	"github.com/otiai10/gosseract/v2"
)

const (
	defaultTextField = "label_text"
	imageNameField   = "image_name"
)

// GosseractEngine runs Tesseract locally. It cannot follow a response
// schema, so it only fills the image name and one raw-text field.
type GosseractEngine struct {
	textField string
}

func NewGosseractEngine(opts Options) (*GosseractEngine, error) {
	field := opts.TextField
	if field == "" {
		field = defaultTextField
	}
	return &GosseractEngine{textField: field}, nil
}

func (g *GosseractEngine) ProcessImage(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("configuring tesseract: %w", err)
	}
	if err := client.SetImageFromBytes(req.Image); err != nil {
		return nil, fmt.Errorf("loading image %s into tesseract: %w", req.ImageName, err)
	}

	logger.DebugLog("[tesseract]: recognizing %s", req.ImageName)
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from image %s: %w", req.ImageName, err)
	}
	return g.textToJSON(req.ImageName, text)
}

func (g *GosseractEngine) Close() error {
	return nil
}

// textToJSON keeps line breaks, which matter on labels, but trims each line.
func (g *GosseractEngine) textToJSON(imageName, text string) (json.RawMessage, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}

	data := map[string]string{
		imageNameField: imageName,
		g.textField:    strings.Join(kept, "\n"),
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal text to JSON: %w", err)
	}
	return json.RawMessage(jsonBytes), nil
}
