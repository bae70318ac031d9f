// Command photopages lays out photographs one per page in a Word document.
//
// Usage:
//
//	photopages build   [flags] <image|dir>...
//	photopages preview [flags] <image|dir>...
//	photopages inspect <file.docx>
//
// Exit status is 0 on success, 1 when some photographs were skipped, 2 for
// usage or configuration errors and 3 when the document could not be saved.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/message"

	"github.com/tsawler/photopages"
	"github.com/tsawler/photopages/assemble"
	"github.com/tsawler/photopages/config"
	"github.com/tsawler/photopages/internal/messages"
	"github.com/tsawler/photopages/observability"
	"github.com/tsawler/photopages/store"
)

const (
	exitOK      = 0
	exitPartial = 1
	exitUsage   = 2
	exitSave    = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "build":
		return runBuild(args[1:], stdout, stderr)
	case "preview":
		return runPreview(args[1:], stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "photopages: unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  photopages build   [flags] <image|dir>...   write a .docx with one photo per page
  photopages preview [flags] <image|dir>...   render page previews and index.html
  photopages inspect <file.docx>               describe the pages of a document

Run "photopages <command> -h" for the flags of a command.
`)
}

// common holds the flags shared by build and preview.
type common struct {
	configPath string
	page       string
	margin     float64
	landscape  bool
	fit        string
	autoOrient bool
	title      string
	lang       string
	verbose    bool
	rotations  rotationsFlag
	edits      editsFlag
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "JSON configuration `file`; flags override its values")
	fs.StringVar(&c.page, "page", "A4", "paper format: A3, A4, A5, Letter, Legal")
	fs.Float64Var(&c.margin, "margin", 10, "margin on every side in `mm`")
	fs.BoolVar(&c.landscape, "landscape", false, "turn the page sideways")
	fs.StringVar(&c.fit, "fit", "width", "scale photos to the content `width` or to the whole page")
	fs.BoolVar(&c.autoOrient, "auto-orient", false, "apply EXIF orientation before rotating")
	fs.StringVar(&c.title, "title", "", "document title")
	fs.StringVar(&c.lang, "lang", "en", "message language: en or ru")
	fs.BoolVar(&c.verbose, "v", false, "log debug output to stderr")
	fs.Var(&c.rotations, "rotate", "rotate photo N clockwise, as `N=DEG` (repeatable, positions from 1)")
	fs.Var(&c.edits, "edit", "reorder the list after -rotate: up:N, down:N, remove:N or rotate:N (repeatable, applied in order)")
}

// apply overlays explicitly set flags on cfg.
func (c *common) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "page":
			cfg.Page = c.page
			cfg.WidthMM, cfg.HeightMM = 0, 0
		case "margin":
			cfg.MarginMM = c.margin
		case "landscape":
			cfg.Landscape = c.landscape
		case "fit":
			cfg.Fit = c.fit
		case "auto-orient":
			cfg.AutoOrient = c.autoOrient
		case "title":
			cfg.Title = c.title
		case "lang":
			cfg.Lang = c.lang
		}
	})
}

func (c *common) logger(stderr io.Writer) observability.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	return observability.NewSlogLogger(slog.New(h))
}

// loadConfig reads the -config file, if any, and overlays the common flags
// and then the command's own flags through extra.
func (c *common) loadConfig(fs *flag.FlagSet, extra func(name string, cfg *config.Config)) (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return config.Config{}, err
		}
	}
	c.apply(fs, &cfg)
	fs.Visit(func(f *flag.Flag) {
		extra(f.Name, &cfg)
	})
	return cfg, cfg.Validate()
}

// open creates the project, imports the arguments and applies the list
// edits. A non-zero code means the command should stop.
func (c *common) open(fs *flag.FlagSet, cfg config.Config, log observability.Logger, msg *message.Printer, stdout, stderr io.Writer) (*photopages.Project, int) {
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, msg.Sprintf(messages.NoImages))
		fs.Usage()
		return nil, exitUsage
	}

	proj, err := photopages.New(cfg, photopages.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return nil, exitUsage
	}
	proj.Store().Subscribe(func(ev store.Event) {
		log.Debug("list changed", observability.String("event", ev.Kind.String()), observability.Int("index", ev.Index))
	})

	warnings, err := proj.Load(fs.Args()...)
	if err != nil {
		for _, w := range warnings {
			fmt.Fprintln(stderr, w.String())
		}
		fmt.Fprintln(stderr, msg.Sprintf(messages.NoImages))
		return nil, exitUsage
	}
	fmt.Fprintln(stdout, msg.Sprintf(messages.Loaded, proj.Store().Len()))

	removed, err := applyEdits(proj.Store(), c.rotations, c.edits)
	if err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return nil, exitUsage
	}
	if removed > 0 {
		fmt.Fprintln(stdout, msg.Sprintf(messages.Removed, proj.Store().Len()))
	}
	return proj, exitOK
}

// report prints warnings and returns the exit code they imply.
func report(warnings []photopages.Warning, total int, msg *message.Printer, stderr io.Writer) int {
	for _, w := range warnings {
		switch {
		case w.Index >= 0 && w.Message == photopages.PreviewFailed:
			fmt.Fprintln(stderr, msg.Sprintf(messages.LoadFailed, w.Err))
			continue
		case w.Index >= 0:
			fmt.Fprintln(stderr, msg.Sprintf(messages.ProcessFailed, w.Source, w.Err))
			continue
		}
		fmt.Fprintln(stderr, w.String())
	}
	if skipped := photopages.Skipped(warnings); len(skipped) > 0 {
		fmt.Fprintln(stderr, msg.Sprintf(messages.Skipped, len(skipped), total))
		return exitPartial
	}
	return exitOK
}

// ============================================================================
// build
// ============================================================================

func runBuild(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: photopages build [flags] <image|dir>...")
		fs.PrintDefaults()
	}

	var c common
	c.register(fs)
	output := fs.String("o", "", "output `file` (default file_<ddmmyyyyhhmmss>.docx)")
	imageFormat := fs.String("image-format", "png", "embedded picture encoding: png or jpeg")
	quality := fs.Int("quality", 90, "JPEG quality 1-100")
	maxPPI := fs.Float64("max-ppi", 0, "downsample pictures above this resolution; 0 keeps originals")
	useOCR := fs.Bool("ocr", false, "describe pictures with OCR text (needs a build with -tags ocr)")
	ocrLang := fs.String("ocr-lang", "eng", "Tesseract languages, e.g. eng+rus")
	author := fs.String("author", "", "document author")
	sectionStart := fs.String("section-start", "nextPage", "section start type: nextPage or continuous")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := c.loadConfig(fs, func(name string, cfg *config.Config) {
		switch name {
		case "image-format":
			cfg.ImageFormat = *imageFormat
		case "quality":
			cfg.JPEGQuality = *quality
		case "max-ppi":
			cfg.MaxPPI = *maxPPI
		case "ocr":
			cfg.OCR = *useOCR
		case "ocr-lang":
			cfg.OCRLang = *ocrLang
		case "author":
			cfg.Author = *author
		case "section-start":
			cfg.SectionStart = *sectionStart
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return exitUsage
	}

	msg := messages.Printer(cfg.Lang)
	log := c.logger(stderr)

	proj, code := c.open(fs, cfg, log, msg, stdout, stderr)
	if proj == nil {
		return code
	}

	path := *output
	if path == "" {
		path = defaultOutput(time.Now())
	}

	total := proj.Store().Len()
	warnings, err := proj.Save(path)
	var se *assemble.SaveError
	switch {
	case errors.As(err, &se):
		report(warnings, total, msg, stderr)
		fmt.Fprintln(stderr, msg.Sprintf(messages.SaveFailed, se.Err))
		return exitSave
	case err != nil:
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return exitUsage
	}

	code = report(warnings, total, msg, stderr)
	fmt.Fprintln(stdout, msg.Sprintf(messages.Saved, path))
	return code
}

// defaultOutput names the document after the current time, day first.
func defaultOutput(now time.Time) string {
	return "file_" + now.Format("02012006150405") + ".docx"
}

// ============================================================================
// preview
// ============================================================================

func runPreview(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: photopages preview [flags] <image|dir>...")
		fs.PrintDefaults()
	}

	var c common
	c.register(fs)
	output := fs.String("o", "preview", "output `dir` for page-NNN.png and index.html")
	width := fs.Int("width", 400, "preview width in `pixels`")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := c.loadConfig(fs, func(name string, cfg *config.Config) {
		if name == "width" {
			cfg.PreviewWidth = *width
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return exitUsage
	}

	msg := messages.Printer(cfg.Lang)
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, msg.Sprintf(messages.NoPreview))
		fs.Usage()
		return exitUsage
	}
	proj, code := c.open(fs, cfg, c.logger(stderr), msg, stdout, stderr)
	if proj == nil {
		return code
	}

	total := proj.Store().Len()
	warnings, err := proj.WritePreviews(*output)
	if err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return exitSave
	}
	code = report(warnings, total, msg, stderr)
	fmt.Fprintln(stdout, msg.Sprintf(messages.PreviewWritten, *output))
	return code
}
