package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/tsawler/photopages/docx"
	"github.com/tsawler/photopages/format"
	"github.com/tsawler/photopages/model"
)

func runInspect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: photopages inspect <file.docx>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	if err := checkDOCX(fs.Arg(0)); err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return exitUsage
	}

	r, err := docx.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return exitUsage
	}
	defer r.Close()

	if err := inspect(stdout, r); err != nil {
		fmt.Fprintf(stderr, "photopages: %v\n", err)
		return exitPartial
	}
	return exitOK
}

// checkDOCX rejects files whose content is not a Word document.
func checkDOCX(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	got, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if got != format.DOCX {
		return fmt.Errorf("%s: not a DOCX document (%s)", path, got)
	}
	return nil
}

// inspect prints one row per section and a summary line.
func inspect(w io.Writer, r *docx.Reader) error {
	meta := r.Metadata()
	if meta.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", meta.Title)
	}
	if !meta.Created.IsZero() {
		fmt.Fprintf(w, "Created: %s\n", meta.Created.Format("2006-01-02 15:04:05 MST"))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tSTART\tPAGE (mm)\tMARGINS T/R/B/L (mm)\tPICTURE (mm)\tBREAKS")

	sections := r.Sections()
	pictures := 0
	for i, sec := range sections {
		pic := "-"
		for j, p := range sec.Pictures {
			size := fmt.Sprintf("%.1f x %.1f", model.EMUToMillimetres(p.Width), model.EMUToMillimetres(p.Height))
			if j == 0 {
				pic = size
			} else {
				pic += ", " + size
			}
			pictures++
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f x %.1f\t%.1f/%.1f/%.1f/%.1f\t%s\t%d\n",
			i+1, sec.Start,
			sec.PageWidth, sec.PageHeight,
			sec.MarginTop, sec.MarginRight, sec.MarginBottom, sec.MarginLeft,
			pic, sec.PageBreaks)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d sections, %d pictures, %d page breaks\n", len(sections), pictures, r.PageBreakCount())
	return err
}
