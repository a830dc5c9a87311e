package image

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const defaultMIMEType = "image/jpeg"

// Encoded is one image ready to be attached inline to a model request.
type Encoded struct {
	Name     string
	Data     []byte
	Base64   string
	MIMEType string
}

// Encode reads the file at path and base64-encodes its bytes unchanged.
func Encode(path string) (*Encoded, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}

	return &Encoded{
		Name:     filepath.Base(path),
		Data:     raw,
		Base64:   base64.StdEncoding.EncodeToString(raw),
		MIMEType: detectMIMEType(raw),
	}, nil
}

func detectMIMEType(raw []byte) string {
	mime := http.DetectContentType(raw)
	if strings.HasPrefix(mime, "image/") {
		return mime
	}
	return defaultMIMEType
}
