package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tmoreno/trxd/internal/types"
)

const (
	jsonIndentPrefix = ""
	jsonIndentSpacer = "  "
)

// jsonRenderer buffers the entry sequence and emits the nested mapping as an
// indented JSON document on Flush.
type jsonRenderer struct {
	writer  io.Writer
	builder *nestedBuilder
}

func newJSONRenderer(writer io.Writer, showMetadata bool) Renderer {
	return &jsonRenderer{writer: writer, builder: newNestedBuilder(showMetadata)}
}

func (renderer *jsonRenderer) Handle(entry types.Entry) error {
	return renderer.builder.add(entry)
}

func (renderer *jsonRenderer) Flush() error {
	encoded, jsonEncodeError := json.MarshalIndent(renderer.builder.build(), jsonIndentPrefix, jsonIndentSpacer)
	if jsonEncodeError != nil {
		return jsonEncodeError
	}
	_, writeError := fmt.Fprintln(renderer.writer, string(encoded))
	return writeError
}
