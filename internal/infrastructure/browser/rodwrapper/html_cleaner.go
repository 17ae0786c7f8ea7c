package rodwrapper

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TruncationNotice is appended to output cut at CleanConfig.MaxOutputSize.
const TruncationNotice = "\n<!-- HTML truncated -->"

type CleanConfig struct {
	TagsToRemove     []string
	AttrsToRemove    []string
	MaxOutputSize    int
	CustomAttrFilter func(attr html.Attribute) bool
}

// DefaultCleanConfig strips markup that carries no page content.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title", "template",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	MaxOutputSize: 130_000,
}

// Cleaned is the output of CleanHTML.
type Cleaned struct {
	HTML      string
	Truncated bool
}

// CleanHTML removes comments, non-content tags and noisy attributes from a
// document or fragment. A full document is reduced to its <body>; a fragment
// is cleaned as is. Unparseable input is returned unchanged.
func CleanHTML(rawHTML string, cfg *CleanConfig) Cleaned {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	var out string
	if looksLikeDocument(rawHTML) {
		doc, err := html.Parse(strings.NewReader(rawHTML))
		if err != nil {
			return truncate(rawHTML, cfg.MaxOutputSize)
		}
		body := findBodyNode(doc)
		if body == nil {
			return truncate(rawHTML, cfg.MaxOutputSize)
		}
		cleanNode(body, cfg)
		out = renderNode(body)
	} else {
		body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		nodes, err := html.ParseFragment(strings.NewReader(rawHTML), body)
		if err != nil {
			return truncate(rawHTML, cfg.MaxOutputSize)
		}
		var sb strings.Builder
		for _, n := range nodes {
			holder := &html.Node{Type: html.DocumentNode}
			holder.AppendChild(n)
			cleanNode(n, cfg)
			if n.Parent != nil {
				_ = html.Render(&sb, n)
			}
		}
		out = sb.String()
	}

	return truncate(out, cfg.MaxOutputSize)
}

func looksLikeDocument(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype") || strings.Contains(head, "<html") ||
		strings.Contains(head, "<body")
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

// cleanNode detaches n from its parent when it is a comment or a removed tag.
func cleanNode(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *CleanConfig) []html.Attribute {
	kept := attrs[:0]
	for _, attr := range attrs {
		if shouldRemoveAttr(attr, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(attr html.Attribute, cfg *CleanConfig) bool {
	key := attr.Key
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	// aria-label and aria-checked describe controls; the rest is noise.
	if key == "aria-label" || key == "aria-checked" {
		return false
	}
	if strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-") || strings.HasPrefix(key, "on") {
		return true
	}
	if cfg.CustomAttrFilter != nil && cfg.CustomAttrFilter(attr) {
		return true
	}
	return false
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// truncate cuts on a rune boundary so the output stays valid UTF-8.
func truncate(s string, maxSize int) Cleaned {
	if maxSize <= 0 || len(s) <= maxSize {
		return Cleaned{HTML: s}
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return Cleaned{HTML: s[:cut] + TruncationNotice, Truncated: true}
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
