// Package output renders the entry sequence produced by the walker into one
// of the supported text formats. Streaming renderers (flat, csv) emit one
// line per entry as it arrives; buffering renderers (tree, ascii, json, yaml)
// reconstruct the nested structure before emitting anything.
package output

import (
	"fmt"
	"io"

	"github.com/tmoreno/trxd/internal/types"
)

// invalidFormatMessage reports an unrecognized output format name.
const invalidFormatMessage = "invalid format value '%s'"

// Renderer consumes the entry sequence and produces formatted text. Handle is
// called once per entry in traversal order; Flush is called exactly once
// after the final entry and completes the output.
type Renderer interface {
	Handle(entry types.Entry) error
	Flush() error
}

// Options carries the rendering switches shared by every format.
type Options struct {
	// ShowMetadata reflects whether the walk collected metadata; renderers
	// with metadata columns or summaries include them only when set.
	ShowMetadata bool
	// UseEmoji selects emoji glyphs in the tree format. The ascii format and
	// every non-tree format ignore it.
	UseEmoji bool
}

// rendererConstructors is the strategy table keyed by format name. Adding a
// format means implementing Renderer and registering a constructor here.
var rendererConstructors = map[string]func(options Options, writer io.Writer) Renderer{
	types.FormatTree: func(options Options, writer io.Writer) Renderer {
		return newTreeRenderer(writer, options.ShowMetadata, options.UseEmoji)
	},
	types.FormatASCII: func(options Options, writer io.Writer) Renderer {
		return newTreeRenderer(writer, options.ShowMetadata, false)
	},
	types.FormatFlat: func(options Options, writer io.Writer) Renderer {
		return newFlatRenderer(writer, options.ShowMetadata)
	},
	types.FormatCSV: func(options Options, writer io.Writer) Renderer {
		return newCSVRenderer(writer, options.ShowMetadata)
	},
	types.FormatJSON: func(options Options, writer io.Writer) Renderer {
		return newJSONRenderer(writer, options.ShowMetadata)
	},
	types.FormatYAML: func(options Options, writer io.Writer) Renderer {
		return newYAMLRenderer(writer, options.ShowMetadata)
	},
}

// New returns the renderer for the given format name writing to writer.
// An unknown format is a configuration error surfaced before any output.
func New(formatName string, options Options, writer io.Writer) (Renderer, error) {
	constructor, supported := rendererConstructors[formatName]
	if !supported {
		return nil, fmt.Errorf(invalidFormatMessage, formatName)
	}
	return constructor(options, writer), nil
}
