// Package pest pulls crop-specific pest advice from a public web page.
package pest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/agrobot/internal/collab"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultURL is the advice page scraped when no other URL is configured.
const DefaultURL = "https://sites.google.com/view/pest-advice/home"

// NoAdvice is returned when no heading or paragraph mentions the crop.
const NoAdvice = "No advice found for this crop."

// Advisor scrapes headings and paragraphs that mention a crop.
type Advisor struct {
	client collab.Client
	url    string
}

func NewAdvisor(client collab.Client, url string) *Advisor {
	if url == "" {
		url = DefaultURL
	}
	return &Advisor{client: client, url: url}
}

// Advice fetches the page and returns the text of every h2, h3 and p
// element whose text contains crop, case-insensitively, one per line.
func (a *Advisor) Advice(ctx context.Context, crop string) (string, error) {
	resp, err := a.client.Get(ctx, collab.CallPest, a.url)
	if err != nil {
		return "", fmt.Errorf("fetching pest advice: %w", err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("fetching pest advice: %w: status %d", collab.ErrBadResponse, resp.StatusCode)
	}

	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return "", fmt.Errorf("parsing pest advice: %w: %v", collab.ErrBadResponse, err)
	}

	matches := Extract(doc, crop)
	if len(matches) == 0 {
		return NoAdvice, nil
	}
	return strings.Join(matches, "\n"), nil
}

// Extract walks doc in order and collects matching element texts.
func Extract(doc *html.Node, crop string) []string {
	needle := strings.ToLower(crop)
	var out []string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H2, atom.H3, atom.P:
				text := strippedText(n)
				if strings.Contains(strings.ToLower(text), needle) {
					out = append(out, text)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return out
}

// strippedText joins the trimmed text nodes under n with no separator, so
// "<p>Aphids on <b>wheat</b></p>" reads "Aphids onwheat". Script and style
// contents are skipped.
func strippedText(n *html.Node) string {
	var b strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.DataAtom == atom.Script || node.DataAtom == atom.Style) {
			return
		}
		if node.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(node.Data))
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return b.String()
}
