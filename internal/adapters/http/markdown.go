package http

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// NewMarkdown returns the goldmark converter used for post bodies.
// Raw HTML in a post is escaped, not passed through.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// renderMarkdown converts content to HTML, falling back to the escaped source.
func renderMarkdown(md goldmark.Markdown, content string) template.HTML {
	var b bytes.Buffer
	if err := md.Convert([]byte(content), &b); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(b.String())
}
