package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"aax-batch-convert/internal/app"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

const (
	exitOK               = 0
	exitFailure          = 1
	exitUsage            = 2
	exitMissingConverter = 3
	exitConversionFailed = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, done, err := parseFlags(args, stdout, stderr)
	if err != nil {
		return exitUsage
	}
	if done {
		return exitOK
	}

	opts.ProgramDir, err = programDir()
	if err != nil {
		opts.Logger.Error("cannot locate program directory", "err", err)
		return exitFailure
	}

	if err := app.Run(opts); err != nil {
		opts.Logger.Error(err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var missing *app.MissingDependencyError
	var failed *app.ConversionFailedError
	switch {
	case errors.As(err, &missing):
		return exitMissingConverter
	case errors.As(err, &failed):
		return exitConversionFailed
	default:
		return exitFailure
	}
}

func programDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert-books [options] [FILE ...]",
		Short: "Convert multiple AAX audiobooks with AAXtoMP3",
		Long: `convert-books wraps AAXtoMP3 to convert many AAX files at once.

Each book is converted to chaptered m4a under the output directory, in a
folder named by AAXtoMP3 as "$artist -- $title". AAXtoMP3 is expected at
AAXtoMP3/AAXtoMP3 next to this program unless AAXTOMP3_PATH is set (the
variable may also come from a .env file).`,
		Example: `  # Convert a single audiobook into ~/audiobooks
  convert-books --outdir ~/audiobooks --authcode <AUTHCODE> ~/Downloads/MyBook.aax

  # Convert many audiobooks, letting AAXtoMP3 find the authcode
  convert-books --outdir ~/audiobooks ~/Downloads/*.aax`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	f := cmd.Flags()
	f.StringP("outdir", "o", app.DefaultOutDir, "Directory in which outputs will be stored")
	f.StringP("authcode", "A", "", "Authorization code for audiobooks (can be found using audible-activator)")
	f.Bool("dry-run", false, "Only log the commands that would be executed")
	f.Bool("check-status", false, "Report converter failures and exit non-zero if any conversion failed")
	f.Bool("version", false, "Print version and exit")
	// --verbose and --quiet are checked in readCLIOptions so --version still wins.
	f.BoolP("verbose", "v", false, "Enable debug logging (not with --quiet)")
	f.Bool("quiet", false, "Only log warnings and errors (not with --verbose)")

	return cmd
}

// parseFlags returns done=true when the invocation was fully handled
// (--version or --help) and nothing else should run.
func parseFlags(args []string, stdout, stderr io.Writer) (app.Options, bool, error) {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	var opts app.Options
	parsed := false
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (version %s)\n", cmd.Name(), version)
			return nil
		}
		o, err := readCLIOptions(cmd, args, stderr)
		if err != nil {
			return err
		}
		opts = o
		parsed = true
		return nil
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n%s", err, cmd.UsageString())
		return app.Options{}, false, err
	}
	return opts, !parsed, nil
}

func readCLIOptions(cmd *cobra.Command, args []string, logOut io.Writer) (app.Options, error) {
	flags := cmd.Flags()
	outDir, _ := flags.GetString("outdir")
	authCode, _ := flags.GetString("authcode")
	dryRun, _ := flags.GetBool("dry-run")
	checkStatus, _ := flags.GetBool("check-status")
	verbose, _ := flags.GetBool("verbose")
	quiet, _ := flags.GetBool("quiet")

	if strings.TrimSpace(outDir) == "" {
		return app.Options{}, errors.New("--outdir must not be empty")
	}
	if verbose && quiet {
		return app.Options{}, errors.New("--verbose and --quiet cannot be used together")
	}

	level := log.InfoLevel
	switch {
	case verbose:
		level = log.DebugLevel
	case quiet:
		level = log.WarnLevel
	}
	logger := log.NewWithOptions(logOut, log.Options{
		Level:  level,
		Prefix: cmd.Name(),
	})

	opts := app.Options{
		Inputs:      args,
		OutDir:      outDir,
		AuthCode:    authCode,
		DryRun:      dryRun,
		CheckStatus: checkStatus,
		Logger:      logger,
	}
	logger.Debug("parsed options",
		"inputs", opts.Inputs,
		"outdir", opts.OutDir,
		"authcode", redact(opts.AuthCode),
		"dry_run", opts.DryRun,
		"check_status", opts.CheckStatus,
		"level", level,
	)
	return opts, nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
