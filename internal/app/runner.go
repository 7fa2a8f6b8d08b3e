package app

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// Fixed AAXtoMP3 arguments. The converter interprets the naming scheme itself.
const (
	converterShell  = "bash"
	outputEncoding  = "-e:m4a"
	chapteredFlag   = "--chaptered"
	dirNamingScheme = "$artist -- $title"
)

const globMeta = "*?[{"

// commandExecutor runs one child process to completion.
type commandExecutor interface {
	Run(name string, args ...string) error
}

type execCommand struct{}

func (execCommand) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

type runner struct {
	opts      Options
	converter string
	exec      commandExecutor
	log       *log.Logger
	stats     runStats
}

type runStats struct {
	dispatched int
	failed     []string
}

func newRunner(opts Options, converter string, executor commandExecutor) *runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &runner{
		opts:      opts,
		converter: converter,
		exec:      executor,
		log:       logger,
	}
}

func (r *runner) Execute() error {
	r.log.Debug("using converter", "path", r.converter)

	if err := r.prepareOutdir(); err != nil {
		return err
	}

	for _, input := range r.expandInputs() {
		r.convert(input)
	}

	if r.opts.DryRun {
		r.log.Infof("(DRY RUN) %d conversion(s) planned", r.stats.dispatched)
		return nil
	}
	r.log.Infof("%d conversion(s) dispatched", r.stats.dispatched)

	if len(r.stats.failed) > 0 {
		return &ConversionFailedError{Failed: r.stats.failed, Total: r.stats.dispatched}
	}
	return nil
}

// prepareOutdir creates the output directory if it is missing. Parents are
// not created.
func (r *runner) prepareOutdir() error {
	dir := r.opts.OutDir
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return &CreateDirectoryError{Path: abs, Err: errors.New("exists and is not a directory")}
		}
		r.log.Debugf("Output directory %s already exists", abs)
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return &CreateDirectoryError{Path: abs, Err: err}
	}

	if r.opts.DryRun {
		r.log.Infof("(DRY RUN) Creating directory %s", abs)
		return nil
	}

	r.log.Infof("Creating directory %s", abs)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return &CreateDirectoryError{Path: abs, Err: err}
	}
	return nil
}

// expandInputs keeps literal paths as given and expands glob patterns.
func (r *runner) expandInputs() []string {
	var inputs []string
	for _, input := range r.opts.Inputs {
		if !strings.ContainsAny(input, globMeta) {
			inputs = append(inputs, input)
			continue
		}
		// Names like "Book [Unabridged].aax" are files, not patterns.
		if _, err := os.Stat(input); err == nil {
			inputs = append(inputs, input)
			continue
		}

		// Unmatched or malformed patterns are passed through literally, like a
		// shell without nullglob; the converter reports on them.
		matches, err := doublestar.FilepathGlob(input)
		if err != nil {
			r.log.Debug("invalid pattern, using literal path", "pattern", input, "err", err)
			inputs = append(inputs, input)
			continue
		}
		if len(matches) == 0 {
			r.log.Debug("pattern matched no files, using literal path", "pattern", input)
			inputs = append(inputs, input)
			continue
		}
		sort.Strings(matches)
		r.log.Debug("expanded pattern", "pattern", input, "matches", len(matches))
		inputs = append(inputs, matches...)
	}
	return inputs
}

func (r *runner) convert(input string) {
	path, err := filepath.Abs(input)
	if err != nil {
		path = filepath.Clean(input)
	}
	r.log.Infof("Converting audiobook at: %s", path)
	r.log.Debug("derived stem", "stem", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	args := buildCommand(r.converter, r.opts.AuthCode, r.opts.OutDir, path)
	r.stats.dispatched++

	if r.opts.DryRun {
		r.log.Infof("(DRY RUN) running %s", renderCommand(args))
		return
	}

	r.log.Infof("running %s", renderCommand(args))
	err = r.exec.Run(args[0], args[1:]...)
	if err == nil {
		return
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// Nothing ran, so nothing reached the console.
		r.log.Warnf("could not start converter for %s: %v", path, err)
	}
	if !r.opts.CheckStatus {
		// The converter reports its own failures on the console; the batch goes on.
		r.log.Debug("converter returned", "file", path, "err", err)
		return
	}
	r.log.Warnf("conversion of %s failed: %v", path, err)
	r.stats.failed = append(r.stats.failed, path)
}

// buildCommand returns the converter argument list in its fixed order.
func buildCommand(converter, authCode, outDir, input string) []string {
	args := []string{converterShell, converter}
	if authCode != "" {
		args = append(args, "--authcode", authCode)
	}
	return append(args,
		"--target_dir", outDir,
		outputEncoding,
		chapteredFlag,
		"--dir-naming-scheme", dirNamingScheme,
		input,
	)
}

// renderCommand formats args for logging only; execution never goes through a shell string.
func renderCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
