package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tmoreno/trxd/internal/types"
)

const yamlIndentWidth = 2

// yamlRenderer buffers the entry sequence and emits the nested mapping as a
// block-style YAML document on Flush.
type yamlRenderer struct {
	writer  io.Writer
	builder *nestedBuilder
}

func newYAMLRenderer(writer io.Writer, showMetadata bool) Renderer {
	return &yamlRenderer{writer: writer, builder: newNestedBuilder(showMetadata)}
}

func (renderer *yamlRenderer) Handle(entry types.Entry) error {
	return renderer.builder.add(entry)
}

func (renderer *yamlRenderer) Flush() error {
	encoder := yaml.NewEncoder(renderer.writer)
	encoder.SetIndent(yamlIndentWidth)
	if encodeError := encoder.Encode(renderer.builder.build()); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}
