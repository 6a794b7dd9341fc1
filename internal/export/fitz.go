// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"image"
	"regexp"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gen2brain/go-fitz"
)

// inlineImagePattern matches markdown images with embedded base64 data.
// MuPDF inlines page images into the HTML; they bloat the markdown output
// without contributing text, so they are stripped.
var inlineImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(data:image/[^)]+\)`)

// FitzDocument is the production Document backed by MuPDF. Markdown is
// produced by rendering the page to HTML and converting it.
type FitzDocument struct {
	doc  *fitz.Document
	conv *md.Converter
}

// Open loads the PDF at path. The caller owns the returned document and
// must close it exactly once.
func Open(path string) (*FitzDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &FitzDocument{
		doc:  doc,
		conv: md.NewConverter("", true, nil),
	}, nil
}

// PageCount returns the number of pages in the document.
func (d *FitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// RenderImage rasterizes the zero-indexed page at the given DPI.
func (d *FitzDocument) RenderImage(page int, dpi int) (image.Image, error) {
	img, err := d.doc.ImageDPI(page, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("rasterizing page %d: %w", page+1, err)
	}
	return img, nil
}

// RenderMarkdown extracts the zero-indexed page as markdown via the
// page's HTML rendering.
func (d *FitzDocument) RenderMarkdown(page int) (string, error) {
	html, err := d.doc.HTML(page, true)
	if err != nil {
		return "", fmt.Errorf("extracting page %d: %w", page+1, err)
	}
	text, err := d.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting page %d: %w", page+1, err)
	}
	return inlineImagePattern.ReplaceAllString(text, ""), nil
}

// Close releases the underlying MuPDF document.
func (d *FitzDocument) Close() error {
	return d.doc.Close()
}
