// pdfdocx extracts PDF pages as images and builds Word reports from them or
// from HTML.
//
// Usage:
//
//	pdfdocx <command> [-plan file.yaml] [-log-level level]
//	pdfdocx info <file.pdf>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	pdfdocx "github.com/porticus-lab/go-pdf-docx"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: loading .env: %v\n", err)
		os.Exit(1)
	}

	var run func([]string) error
	switch os.Args[1] {
	case "extract":
		run = runExtract
	case "html":
		run = runHTML
	case "assemble":
		run = runAssemble
	case "screenshot":
		run = runScreenshot
	case "check":
		run = runCheck
	case "info":
		run = runInfo
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`pdfdocx - PDF page extraction and Word report builder

Usage:
  pdfdocx <command> [options]

Commands:
  extract      Render the planned PDF pages to PNG images
  html         Convert the planned HTML file directly to Word
  assemble     Build the Word report from titles, text boxes and page images
  screenshot   Capture each .page section of the HTML file and lay them out in Word
  check        Verify that every planned PDF page exists
  info         Display page count and page dimensions of a PDF file

Options:
  -plan <file>        YAML plan (default: built-in fund comparison plan)
  -log-level <level>  debug, info, warn, error (default: info)

Environment (also read from .env):
  PDFDOCX_CHROME_PATH     Chrome or Chromium executable
  PDFDOCX_NO_SANDBOX      disable the Chrome sandbox (true/false)
  PDFDOCX_AUTO_DOWNLOAD   download Chromium when none is found (true/false)

Examples:
  pdfdocx extract
  pdfdocx assemble -plan report.yaml
  pdfdocx screenshot -log-level debug
  pdfdocx info deck.pdf
`)
}

// env holds the options shared by every plan command.
type env struct {
	plan *pdfdocx.Plan
	log  *zap.Logger
	args []string
}

func setup(name string, args []string) (*env, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	planPath := flags.String("plan", "", "YAML plan file")
	logLevel := flags.String("log-level", "info", "log level: debug, info, warn, error")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	log, err := newLogger(*logLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)

	var plan *pdfdocx.Plan
	if *planPath != "" {
		plan, err = pdfdocx.LoadPlan(*planPath)
	} else {
		plan, err = pdfdocx.DefaultPlan()
	}
	if err != nil {
		return nil, err
	}
	return &env{plan: plan, log: log, args: flags.Args()}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// runExtract implements the "extract" command.
func runExtract(args []string) error {
	e, err := setup("extract", args)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	ex, err := pdfdocx.NewPageExtractor(e.plan.Path(e.plan.Extract.OutputDir),
		pdfdocx.WithScale(e.plan.Extract.Scale),
		pdfdocx.WithStatus(os.Stdout),
		pdfdocx.WithExtractLogger(e.log),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// Per-page failures are reported on stdout and do not fail the command.
	ex.Run(ctx, e.plan.Sources())
	return nil
}

// runHTML implements the "html" command.
func runHTML(args []string) error {
	e, err := setup("html", args)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	res, err := pdfdocx.ConvertHTMLFile(e.plan.Path(e.plan.HTML.Input), nil)
	if err != nil {
		return err
	}
	out := e.plan.Path(e.plan.HTML.Output)
	if err := res.WriteToFile(out, 0o644); err != nil {
		return err
	}
	fmt.Printf("✅ HTML converted to Word: %s\n", out)
	return nil
}

// runAssemble implements the "assemble" command.
func runAssemble(args []string) error {
	e, err := setup("assemble", args)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	res, err := e.plan.BuildReport()
	if err != nil {
		return err
	}
	out := e.plan.Path(e.plan.Assemble.Output)
	if err := res.WriteToFile(out, 0o644); err != nil {
		return err
	}
	fmt.Printf("✅ Word document created: %s\n", out)
	return nil
}

// runScreenshot implements the "screenshot" command.
func runScreenshot(args []string) error {
	e, err := setup("screenshot", args)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	opts := append(e.plan.CaptureOptions(), browserOptions()...)
	opts = append(opts, pdfdocx.WithLogger(e.log))
	c, err := pdfdocx.NewCapturer(opts...)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in := e.plan.Path(e.plan.Screenshot.Input)
	shotDir := e.plan.Path(e.plan.Screenshot.Dir)
	fmt.Printf("📸 Capturing %s\n", in)
	shots, err := c.Capture(ctx, in, shotDir)
	if err != nil {
		return err
	}
	fmt.Printf("📄 %d pages found\n", len(shots))
	for _, shot := range shots {
		fmt.Printf("  ✓ %s\n", filepath.Base(shot))
	}

	fmt.Println("\n📝 Building Word document...")
	layout := e.plan.ScreenshotLayout()
	layout.OnPage = func(page int, _ string) {
		fmt.Printf("  📄 Page %d added\n", page)
	}
	res, err := pdfdocx.BuildScreenshotDocument(shots, layout)
	if err != nil {
		return err
	}
	out := e.plan.Path(e.plan.Screenshot.Output)
	if err := res.WriteToFile(out, 0o644); err != nil {
		return err
	}
	fmt.Printf("\n✅ Done! Word document: %s\n", out)
	fmt.Printf("📸 Screenshots: %s\n", shotDir)
	return nil
}

// browserOptions reads browser settings from the environment.
func browserOptions() []pdfdocx.Option {
	var opts []pdfdocx.Option
	if p := os.Getenv("PDFDOCX_CHROME_PATH"); p != "" {
		opts = append(opts, pdfdocx.WithChromePath(p))
	}
	if envBool("PDFDOCX_NO_SANDBOX") {
		opts = append(opts, pdfdocx.WithNoSandbox())
	}
	if envBool("PDFDOCX_AUTO_DOWNLOAD") {
		opts = append(opts, pdfdocx.WithAutoDownload())
	}
	return opts
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// runCheck implements the "check" command.
func runCheck(args []string) error {
	e, err := setup("check", args)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	if err := e.plan.Check(); err != nil {
		return err
	}
	var pages int
	for _, s := range e.plan.Extract.Sources {
		pages += len(s.Pages)
	}
	fmt.Printf("✓ %d pages in %d sources are available\n", pages, len(e.plan.Extract.Sources))
	return nil
}

// runInfo implements the "info" command.
func runInfo(args []string) error {
	e, err := setup("info", args)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	if len(e.args) == 0 {
		return fmt.Errorf("no input file specified")
	}
	info, err := pdfdocx.Inspect(e.args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File:    %s\n", info.Path)
	fmt.Printf("Pages:   %d\n", info.PageCount)
	if len(info.Pages) > 0 {
		fmt.Println()
		fmt.Println("Page dimensions:")
		for i, d := range info.Pages {
			fmt.Printf("  Page %d: %.0f x %.0f pt\n", i+1, d.Width, d.Height)
		}
	}
	return nil
}
