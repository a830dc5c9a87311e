package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Alias-z/FungariumOCR/internal/config"
	"github.com/Alias-z/FungariumOCR/internal/data"
	"github.com/Alias-z/FungariumOCR/internal/logger"
	"github.com/Alias-z/FungariumOCR/internal/ocr"
	"github.com/Alias-z/FungariumOCR/internal/ocr/engine"
	"github.com/Alias-z/FungariumOCR/internal/pipeline"
)

type engineFactory func(ctx context.Context, engineType string, opts engine.Options) (ocr.OCREngine, error)

type CLI struct {
	configPath string
	imagesDir  string
	cfg        config.Config

	stdout    io.Writer
	getenv    func(string) string
	newEngine engineFactory
}

func NewCLI() *CLI {
	return &CLI{
		stdout:    os.Stdout,
		getenv:    os.Getenv,
		newEngine: ocr.NewEngine,
	}
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	if err := c.parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	logger.SetDebug(c.cfg.Debug)
	logger.DebugLog("[cli]: engine=%s model=%s images=%s", c.cfg.Engine, c.cfg.ModelName(), c.imagesDir)

	ocrCfg, err := c.cfg.OCRConfig()
	if err != nil {
		return err
	}

	eng, err := c.newEngine(ctx, c.cfg.Engine, c.cfg.EngineOptions())
	if err != nil {
		return fmt.Errorf("creating %s engine: %w", c.cfg.Engine, err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.WarnLog("closing engine: %v", err)
		}
	}()

	logger.InfoLog("processing %s with the %s engine, model %s", c.imagesDir, c.cfg.Engine, ocrCfg.Model)
	var report *pipeline.Report
	if ocrCfg.Shape != nil {
		report, err = pipeline.Run[ocr.Fields](ctx, eng, c.imagesDir, ocrCfg, c.cfg.PipelineOptions())
	} else {
		report, err = pipeline.Run[data.Label](ctx, eng, c.imagesDir, ocrCfg, c.cfg.PipelineOptions())
	}
	if err != nil {
		return err
	}

	c.summarize(report)
	return nil
}

// parse layers flags over the config file, then lets the environment fill
// whatever is still unset.
func (c *CLI) parse(args []string) error {
	fs := flag.NewFlagSet("fungarium-ocr", flag.ContinueOnError)
	fs.SetOutput(c.stdout)

	var f config.Config
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.StringVar(&c.imagesDir, "images", "", "Directory containing the label images (or pass it as the first argument)")
	fs.StringVar(&f.Engine, "engine", "", "OCR engine (openai, gemini, ollama, tesseract)")
	fs.StringVar(&f.Model, "model", "", "Model name; engine default when empty")
	fs.StringVar(&f.APIKey, "api-key", "", "API key for the model service")
	fs.StringVar(&f.BaseURL, "base-url", "", "Model service endpoint override")
	fs.StringVar(&f.Extension, "ext", "", "Image file extension (default .jpg)")
	fs.StringVar(&f.Detail, "detail", "", "Image detail hint (auto, low, high)")
	fs.StringVar(&f.SchemaFile, "schema", "", "JSON or YAML response schema replacing the built-in label fields")
	fs.BoolVar(&f.StrictSchema, "strict", false, "Ask the model to follow -schema strictly")
	fs.StringVar(&f.TextField, "text-field", "", "Field holding the raw text for the tesseract engine")
	fs.BoolVar(&f.NoClobber, "no-clobber", false, "Refuse to overwrite an existing JSON output")
	fs.BoolVar(&f.CSV, "csv", false, "Also write a CSV copy of the spreadsheet")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "engine":
			cfg.Engine = f.Engine
		case "model":
			cfg.Model = f.Model
		case "api-key":
			cfg.APIKey = f.APIKey
		case "base-url":
			cfg.BaseURL = f.BaseURL
		case "ext":
			cfg.Extension = f.Extension
		case "detail":
			cfg.Detail = f.Detail
		case "schema":
			cfg.SchemaFile = f.SchemaFile
		case "strict":
			cfg.StrictSchema = f.StrictSchema
		case "text-field":
			cfg.TextField = f.TextField
		case "no-clobber":
			cfg.NoClobber = f.NoClobber
		case "csv":
			cfg.CSV = f.CSV
		case "debug":
			cfg.Debug = f.Debug
		}
	})
	cfg.ApplyEnv(c.getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	if c.imagesDir == "" {
		c.imagesDir = fs.Arg(0)
	}
	if c.imagesDir == "" {
		return errors.New("no image directory given; pass -images or a directory argument")
	}
	return nil
}

func (c *CLI) summarize(report *pipeline.Report) {
	fmt.Fprintf(c.stdout, "\nProcessing complete! Results saved to: %s\n", report.JSONPath)
	fmt.Fprintf(c.stdout, "Processed %d images (run %s)\n", report.Images, report.RunID)
	if report.SpreadsheetErr != nil {
		fmt.Fprintf(c.stdout, "Spreadsheet not written: %v\n", report.SpreadsheetErr)
	} else {
		fmt.Fprintf(c.stdout, "Spreadsheet: %s\n", report.SpreadsheetPath)
	}
	if report.CSVPath != "" && report.CSVErr == nil {
		fmt.Fprintf(c.stdout, "CSV: %s\n", report.CSVPath)
	}
}
