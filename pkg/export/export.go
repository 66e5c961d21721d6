// Package export turns documents into deliverable artifacts.
//
// Three formats are supported:
//   - HTML: a standalone, unstyled-but-usable form page
//   - DOT: the component tree as a Graphviz digraph
//   - SVG: the DOT graph rendered with Graphviz
//
// Exports are pure functions of the document, which is what makes them
// cacheable by [pkg/cache] under a content-hash key.
package export

import (
	"github.com/formdeck/formdeck/pkg/errors"
	"github.com/formdeck/formdeck/pkg/form"
)

// Format identifies an export format.
type Format string

// Supported formats.
const (
	FormatHTML Format = "html"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatHTML, FormatDOT, FormatSVG}
}

// ParseFormat converts a user-supplied string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatHTML, FormatDOT, FormatSVG:
		return Format(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (html, dot, svg)", s)
}

// Export renders doc in the given format.
func Export(doc *form.Document, format Format) ([]byte, error) {
	switch format {
	case FormatHTML:
		return HTML(doc)
	case FormatDOT:
		return []byte(ToDOT(doc)), nil
	case FormatSVG:
		return RenderSVG(ToDOT(doc))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", format)
}
