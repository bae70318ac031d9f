package photopages_test

import (
	"fmt"
	"log"

	"github.com/tsawler/photopages"
	"github.com/tsawler/photopages/config"
	"github.com/tsawler/photopages/layout"
	"github.com/tsawler/photopages/raster"
)

// These examples mirror the package documentation. They have no Output
// section because they need image files on disk.

func Example_build() {
	warnings, err := photopages.Import("holiday/").Save("holiday.docx")
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range warnings {
		fmt.Println("Warning:", w)
	}
}

func Example_withOptions() {
	warnings, err := photopages.Import("a.jpg", "b.jpg", "c.jpg").
		Page("Letter").      // US Letter instead of A4
		Margin(12.7).        // Half an inch on every side
		Rotate(1, 90).       // Turn the second photo clockwise
		Fit(layout.FitPage). // Keep tall photos on the page
		ImageFormat(raster.JPEG).
		Save("album.docx")
	_ = warnings
	_ = err
}

func Example_project() {
	p := photopages.Must(photopages.New(config.Default()))
	if _, err := p.Load("scans/"); err != nil {
		log.Fatal(err)
	}

	p.Store().Select(0)
	p.Store().RotateSelected()
	p.Store().MoveSelectedDown()

	img, placement, err := p.PreviewSelected()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(img.Bounds().Size(), placement.Bleeds())

	data := photopages.MustWarn(p.Bytes())
	fmt.Println(len(data), "bytes")
}
