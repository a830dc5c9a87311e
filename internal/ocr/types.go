package ocr

import (
	"context"
	"encoding/json"

	"github.com/Alias-z/FungariumOCR/internal/ocr/engine"
)

// OCREngine is a handle on one model service. Build it once with NewEngine,
// reuse it for every image of a batch and Close it when done.
type OCREngine interface {
	ProcessImage(ctx context.Context, req engine.Request) (json.RawMessage, error)
	Close() error
}

// Schema is implemented by result types that can describe their own fields.
// Results are decoded from the model's JSON reply with encoding/json.
type Schema interface {
	SchemaName() string
	JSONSchema() map[string]any
}

// Shape is the response shape sent along with a request.
type Shape struct {
	Name   string
	Schema map[string]any
	Strict bool
}

// strictness lets a result type opt out of strict schema enforcement.
type strictness interface {
	StrictSchema() bool
}

// ShapeOf derives a Shape from T's declared schema. It is strict unless T
// says otherwise.
func ShapeOf[T Schema]() Shape {
	var zero T
	strict := true
	if s, ok := any(zero).(strictness); ok {
		strict = s.StrictSchema()
	}
	return Shape{
		Name:   zero.SchemaName(),
		Schema: zero.JSONSchema(),
		Strict: strict,
	}
}

// Fields is a free-form result used when the schema is only known at
// runtime, e.g. loaded from a file.
type Fields map[string]any

func (Fields) SchemaName() string { return "fields" }

func (Fields) JSONSchema() map[string]any {
	return map[string]any{"type": "object"}
}

// StrictSchema is false: strict mode needs declared properties, which an
// open object does not have.
func (Fields) StrictSchema() bool { return false }

// Config is everything the invoker needs besides the image itself.
type Config struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	// Shape overrides the schema declared by the result type.
	Shape *Shape
	// Detail is the image detail hint; "auto" when empty.
	Detail string
}
