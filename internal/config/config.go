package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alias-z/FungariumOCR/internal/ocr"
	"github.com/Alias-z/FungariumOCR/internal/ocr/engine"
	"github.com/Alias-z/FungariumOCR/internal/pipeline"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSystemPrompt = "You are an expert mycologist transcribing specimen labels from a fungarium collection. " +
		"Transcribe exactly what is written, keeping original spelling and abbreviations. " +
		"Leave a field empty when the label does not state it."
	DefaultUserPrompt = "Read the specimen label in the attached image and fill in every field of the response schema. " +
		"Copy the image name given below into image_name."
)

// Config holds every setting of a batch run. Precedence, highest first:
// command-line flags, YAML file, environment, defaults.
type Config struct {
	Engine       string `yaml:"engine"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	SystemPrompt string `yaml:"system_prompt"`
	UserPrompt   string `yaml:"user_prompt"`
	Detail       string `yaml:"detail"`
	Extension    string `yaml:"extension"`
	SchemaFile   string `yaml:"schema_file"`
	StrictSchema bool   `yaml:"strict_schema"`
	TextField    string `yaml:"text_field"`
	NoClobber    bool   `yaml:"no_clobber"`
	CSV          bool   `yaml:"csv"`
	Debug        bool   `yaml:"debug"`
}

func Defaults() Config {
	return Config{
		Engine:       ocr.EngineOpenAI,
		SystemPrompt: DefaultSystemPrompt,
		UserPrompt:   DefaultUserPrompt,
		Detail:       ocr.DefaultDetail,
		Extension:    pipeline.DefaultExtension,
	}
}

// Load overlays the YAML file at path on top of the defaults. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv fills credentials and endpoints the config left empty.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.APIKey == "" {
		switch c.Engine {
		case ocr.EngineOpenAI, "":
			c.APIKey = getenv("OPENAI_API_KEY")
		case ocr.EngineGemini:
			c.APIKey = firstNonEmpty(getenv("GEMINI_API_KEY"), getenv("GOOGLE_API_KEY"))
		}
	}
	if c.BaseURL == "" {
		switch c.Engine {
		case ocr.EngineOpenAI, "":
			c.BaseURL = getenv("OPENAI_BASE_URL")
		case ocr.EngineOllama:
			c.BaseURL = getenv("OLLAMA_HOST")
		}
	}
	if getenv("DEBUG") == "1" {
		c.Debug = true
	}
}

func (c Config) Validate() error {
	if _, ok := ocr.DefaultModels[c.engineKey()]; !ok {
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	switch c.Detail {
	case "", "auto", "low", "high":
	default:
		return fmt.Errorf("detail must be one of auto, low, high; got %q", c.Detail)
	}
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension must start with a dot, got %q", c.Extension)
	}
	return nil
}

// ModelName is the configured model or the engine's default.
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return ocr.DefaultModels[c.engineKey()]
}

func (c Config) engineKey() string {
	if c.Engine == "gosseract" {
		return ocr.EngineTesseract
	}
	return c.Engine
}

// Shape loads the response schema file, if any. JSON and YAML both parse.
func (c Config) Shape() (*ocr.Shape, error) {
	if c.SchemaFile == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(c.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", c.SchemaFile, err)
	}
	var schema map[string]any
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", c.SchemaFile, err)
	}
	if schema == nil {
		return nil, fmt.Errorf("schema %s is empty", c.SchemaFile)
	}

	name := strings.TrimSuffix(filepath.Base(c.SchemaFile), filepath.Ext(c.SchemaFile))
	return &ocr.Shape{Name: schemaName(name), Schema: schema, Strict: c.StrictSchema}, nil
}

func (c Config) OCRConfig() (ocr.Config, error) {
	shape, err := c.Shape()
	if err != nil {
		return ocr.Config{}, err
	}
	return ocr.Config{
		Model:        c.ModelName(),
		SystemPrompt: c.SystemPrompt,
		UserPrompt:   c.UserPrompt,
		Shape:        shape,
		Detail:       c.Detail,
	}, nil
}

func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		TextField: c.TextField,
	}
}

func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Extension: c.Extension,
		NoClobber: c.NoClobber,
		WriteCSV:  c.CSV,
	}
}

// schemaName keeps only the characters response_format names allow.
func schemaName(s string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
	if name == "" {
		return "schema"
	}
	return name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
