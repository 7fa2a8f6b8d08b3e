package app

import (
	"io"

	"aax-batch-convert/internal/config"

	"github.com/charmbracelet/log"
)

// DefaultOutDir is used when no output directory is given.
const DefaultOutDir = "output"

// Options captures the parsed invocation. It is not modified after Run starts.
type Options struct {
	Inputs      []string
	OutDir      string
	AuthCode    string
	DryRun      bool
	CheckStatus bool
	// ProgramDir is the directory holding this program; the converter is
	// located relative to it.
	ProgramDir string
	Logger     *log.Logger
}

// Run resolves the converter and converts every input in order.
func Run(opts Options) error {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	cfg := config.Load()

	converter, err := resolveConverter(opts.ProgramDir, cfg.ConverterPath)
	if err != nil {
		return err
	}

	return newRunner(opts, converter, execCommand{}).Execute()
}
