package engine

import "errors"

// Request is one image plus the instructions sent to a model service.
type Request struct {
	Model     string
	Prompt    string
	ImageName string
	Image     []byte
	Base64    string
	MIMEType  string
	Detail    string

	SchemaName string
	Schema     map[string]any
	Strict     bool
}

// DataURL is the inline form of the image used by chat-style APIs.
func (r Request) DataURL() string {
	return "data:" + r.MIMEType + ";base64," + r.Base64
}

// Options configures the connection to a model service.
type Options struct {
	APIKey  string
	BaseURL string
	// TextField names the field the tesseract engine fills with raw OCR text.
	TextField string
}

var (
	ErrEmptyResponse = errors.New("model returned no content")
	ErrRefused       = errors.New("model refused the request")
)
