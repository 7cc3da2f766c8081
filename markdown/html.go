package markdown

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docmark/model"
)

// runsFromHTML extracts styled runs from an inline HTML fragment.
// Structural tags are ignored; only the formatting that maps onto run
// attributes survives. A fragment that fails to parse or carries no
// text yields no runs.
func runsFromHTML(fragment string, style inlineStyle) []model.Run {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return nil
	}

	var runs []model.Run
	for _, n := range nodes {
		runs = append(runs, htmlRuns(n, style)...)
	}
	return mergeRuns(runs)
}

// bodyContext returns a body element so fragments parse as flow
// content rather than a full document.
func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}

func htmlRuns(n *html.Node, style inlineStyle) []model.Run {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []model.Run{{
			Text:      n.Data,
			Bold:      style.bold,
			Italic:    style.italic,
			Code:      style.code,
			Underline: style.underline,
			Link:      style.link,
		}}

	case html.ElementNode:
		s := style
		switch n.Data {
		case "b", "strong":
			s.bold = true
		case "i", "em":
			s.italic = true
		case "u":
			s.underline = true
		case "code", "tt":
			s.code = true
		case "a":
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					s.link = attr.Val
				}
			}
		case "br":
			return []model.Run{{Text: "\n"}}
		case "script", "style":
			return nil
		}
		var runs []model.Run
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			runs = append(runs, htmlRuns(child, s)...)
		}
		return runs

	default:
		return nil
	}
}
