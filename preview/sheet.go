package preview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/photopages/model"
)

// SheetEntry is one page on a proof sheet.
type SheetEntry struct {
	File     string         // Page image, relative to the sheet
	Caption  string         // Usually the photograph's file name
	Rotation model.Rotation // Rotation applied to the photograph
	Bleeds   bool           // The photograph is taller than the page
	Err      string         // Set when the page could not be rendered
}

const sheetStyle = `body{font-family:sans-serif;background:#eee;margin:2em}
figure{display:inline-block;margin:1em;vertical-align:top;text-align:center}
figure img{border:1px solid #999;background:#fff}
.bleed{color:#b00;font-weight:bold}
.error{color:#b00}`

// WriteSheet writes an HTML proof sheet with one figure per entry.
func WriteSheet(w io.Writer, title string, entries []SheetEntry) error {
	body := element(atom.Body, nil, element(atom.H1, nil, text(title)))
	for i, e := range entries {
		body.AppendChild(figure(i+1, e))
	}

	head := element(atom.Head, nil,
		element(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
		element(atom.Title, nil, text(title)),
		element(atom.Style, nil, text(sheetStyle)),
	)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, nil, head, body))

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("writing proof sheet: %w", err)
	}
	return nil
}

func figure(page int, e SheetEntry) *html.Node {
	fig := element(atom.Figure, []html.Attribute{
		{Key: "id", Val: "page-" + strconv.Itoa(page)},
		{Key: "data-rotation", Val: strconv.Itoa(int(e.Rotation))},
	})

	if e.Err != "" {
		fig.AppendChild(element(atom.P, []html.Attribute{{Key: "class", Val: "error"}}, text(e.Err)))
	} else {
		fig.AppendChild(element(atom.Img, []html.Attribute{
			{Key: "src", Val: e.File},
			{Key: "alt", Val: e.Caption},
		}))
	}

	caption := element(atom.Figcaption, nil, text(fmt.Sprintf("%d. %s", page, e.Caption)))
	if e.Rotation != model.Rotate0 {
		caption.AppendChild(text(" (" + e.Rotation.String() + ")"))
	}
	if e.Bleeds {
		caption.AppendChild(text(" "))
		caption.AppendChild(element(atom.Span, []html.Attribute{{Key: "class", Val: "bleed"}}, text("bleeds")))
	}
	fig.AppendChild(caption)
	return fig
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Sheet is a parsed proof sheet.
type Sheet struct {
	Title   string
	Entries []SheetEntry
}

// ReadSheet parses a proof sheet written by WriteSheet.
func ReadSheet(r io.Reader) (*Sheet, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing proof sheet: %w", err)
	}

	s := &Sheet{}
	s.extract(doc)
	return s, nil
}

// extract walks the tree collecting the title and figures.
func (s *Sheet) extract(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Title:
			s.Title = textContent(n)
			return
		case atom.Figure:
			s.Entries = append(s.Entries, readFigure(n))
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.extract(c)
	}
}

func readFigure(n *html.Node) SheetEntry {
	var e SheetEntry
	if deg, err := strconv.Atoi(attr(n, "data-rotation")); err == nil {
		e.Rotation, _ = model.Normalize(deg)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Img:
			e.File = attr(c, "src")
			e.Caption = attr(c, "alt")
		case atom.P:
			if attr(c, "class") == "error" {
				e.Err = textContent(c)
			}
		case atom.Figcaption:
			for g := c.FirstChild; g != nil; g = g.NextSibling {
				if g.Type == html.ElementNode && attr(g, "class") == "bleed" {
					e.Bleeds = true
				}
			}
			if e.Caption == "" {
				// "N. caption (90°)"
				label := textContent(c)
				if _, rest, ok := strings.Cut(label, ". "); ok {
					label = rest
				}
				label = strings.TrimSuffix(strings.TrimSpace(label), "bleeds")
				if i := strings.LastIndex(label, " ("); i >= 0 && strings.HasSuffix(strings.TrimSpace(label), ")") {
					label = label[:i]
				}
				e.Caption = strings.TrimSpace(label)
			}
		}
	}
	return e
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated text of n and its descendants.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
