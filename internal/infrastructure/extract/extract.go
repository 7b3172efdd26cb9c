// Package extract pulls the readable text and image URLs out of a page snapshot.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is what the analyzer needs from a document.
type Page struct {
	Title  string   `json:"title,omitempty"`
	Text   string   `json:"text"`
	Images []string `json:"images"`
}

// FromHTML parses r and returns its visible text and absolute http(s) image URLs.
// base resolves relative image sources; it may be nil.
func FromHTML(r io.Reader, base *url.URL) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("extract: parse: %w", err)
	}

	p := &Page{Images: []string{}}
	seen := make(map[string]bool)
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Title:
				if p.Title == "" {
					p.Title = strings.TrimSpace(textOf(n))
				}
				return
			case atom.Img:
				if src := resolve(attr(n, "src"), base); src != "" && !seen[src] {
					seen[src] = true
					p.Images = append(p.Images, src)
				}
			}
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p.Text = sb.String()
	return p, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func resolve(src string, base *url.URL) string {
	if src == "" {
		return ""
	}
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
