package render

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownInstance is initialized once and reused; the goldmark converter
// is safe for concurrent use once configured.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownInstance
}

// Result is rendered text plus whether conversion actually happened.
// Converted=false means the caller got the raw input back.
type Result struct {
	Text      string
	Converted bool
}

// ToHTML renders markdown to HTML. It never fails the caller: a conversion
// error falls back to the raw input, tagged via Converted for observability.
func ToHTML(input string) Result {
	if input == "" {
		return Result{Text: "", Converted: true}
	}
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(input), &buf); err != nil {
		return Result{Text: input, Converted: false}
	}
	return Result{Text: buf.String(), Converted: true}
}
