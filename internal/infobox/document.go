package infobox

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/sc2bot/internal/model"
)

// LabelSelector matches the label cells of a Liquipedia infobox
const LabelSelector = ".infobox-description"

// EntriesFromHTML parses a page and returns its infobox entries in document order
func EntriesFromHTML(r io.Reader) ([]model.InfoboxEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return EntriesFromDocument(doc), nil
}

// EntriesFromDocument pairs every label cell with its next element sibling.
// Labels without a content sibling are skipped.
func EntriesFromDocument(doc *goquery.Document) []model.InfoboxEntry {
	var entries []model.InfoboxEntry

	doc.Find(LabelSelector).Each(func(_ int, label *goquery.Selection) {
		content := label.Next()
		if content.Length() == 0 {
			return
		}
		entries = append(entries, model.InfoboxEntry{
			Header:     nodeText(label.Get(0)),
			RawContent: nodeText(content.Get(0)),
		})
	})

	return entries
}

// nodeText joins the trimmed text nodes under n with single spaces.
// Non-breaking spaces and line breaks become spaces; script and style content is ignored.
func nodeText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			text := strings.TrimSpace(strings.ReplaceAll(node.Data, "\u00a0", " "))
			if text != "" {
				parts = append(parts, text)
			}
			return
		case html.ElementNode:
			switch node.DataAtom {
			case atom.Script, atom.Style:
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(parts, " ")
}
