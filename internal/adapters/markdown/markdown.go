// Package markdown parses issue bodies: YAML front-matter attributes plus sanitized HTML
package markdown

import (
	"bytes"
	"strings"

	perr "gitevents/internal/platform/errors"
	"gitevents/internal/services/webhook/domain"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

const fence = "---"

// Parser renders GitHub flavoured markdown and reads a leading YAML block
// safe for concurrent use
type Parser struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New builds a Parser with GFM extensions and the UGC sanitize policy
func New() *Parser {
	return &Parser{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Parse implements domain.Parser
// a body without a leading fence has no attributes; an unterminated fence is treated as plain body
func (p *Parser) Parse(src string) (domain.Document, error) {
	src = Normalize(src)

	attrs := map[string]any{}
	meta, body, ok := SplitFrontMatter(src)
	if ok && strings.TrimSpace(meta) != "" {
		if err := yaml.Unmarshal([]byte(meta), &attrs); err != nil {
			return domain.Document{}, perr.Wrap(err, perr.ErrorCodeValidation, "issue body has invalid front-matter")
		}
		if attrs == nil {
			attrs = map[string]any{}
		}
	}

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(body), &buf); err != nil {
		return domain.Document{}, perr.Wrap(err, perr.ErrorCodeValidation, "issue body is not renderable markdown")
	}
	html := p.policy.SanitizeBytes(buf.Bytes())

	return domain.Document{HTML: string(html), Attributes: attrs}, nil
}

// Normalize folds line endings to \n and text to NFC so stored titles and bodies compare stably
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFC.String(s)
}

// SplitFrontMatter separates a leading "---" fenced block from the rest
// ok is false when src does not open with a fence or the fence is never closed
func SplitFrontMatter(src string) (meta, body string, ok bool) {
	rest, found := strings.CutPrefix(src, fence+"\n")
	if !found {
		return "", src, false
	}
	if after, empty := strings.CutPrefix(rest, fence); empty && (after == "" || after[0] == '\n') {
		return "", strings.TrimPrefix(after, "\n"), true
	}
	i := strings.Index(rest, "\n"+fence)
	for i >= 0 {
		end := i + 1 + len(fence)
		if end == len(rest) || rest[end] == '\n' {
			return rest[:i], strings.TrimPrefix(rest[end:], "\n"), true
		}
		next := strings.Index(rest[end:], "\n"+fence)
		if next < 0 {
			break
		}
		i = end + next
	}
	return "", src, false
}
