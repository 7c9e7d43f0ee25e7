package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tmoreno/trxd/internal/types"
	"github.com/tmoreno/trxd/internal/utils"
)

const (
	nestedTypeKey      = "type"
	nestedSizeKey      = "size"
	nestedModifiedKey  = "modified"
	nestedFileCountKey = "file_count"
	nestedTotalSizeKey = "total_size"
	nestedContentsKey  = "contents"
	nestedRootMetaKey  = "_metadata"
)

// orderedMap is a mapping that marshals its keys in insertion order, so the
// directories-before-files traversal order survives JSON and YAML encoding.
type orderedMap struct {
	keys   []string
	values map[string]interface{}
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: map[string]interface{}{}}
}

func (mapping *orderedMap) set(key string, value interface{}) {
	if _, exists := mapping.values[key]; !exists {
		mapping.keys = append(mapping.keys, key)
	}
	mapping.values[key] = value
}

// MarshalJSON emits the mapping as a JSON object in insertion order.
func (mapping *orderedMap) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for keyIndex, key := range mapping.keys {
		if keyIndex > 0 {
			buffer.WriteByte(',')
		}
		encodedKey, keyError := json.Marshal(key)
		if keyError != nil {
			return nil, keyError
		}
		buffer.Write(encodedKey)
		buffer.WriteByte(':')
		encodedValue, valueError := json.Marshal(mapping.values[key])
		if valueError != nil {
			return nil, valueError
		}
		buffer.Write(encodedValue)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// MarshalYAML emits the mapping as a block-style YAML mapping node in
// insertion order.
func (mapping *orderedMap) MarshalYAML() (interface{}, error) {
	return mapping.yamlNode()
}

func (mapping *orderedMap) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range mapping.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode, valueError := yamlValueNode(mapping.values[key])
		if valueError != nil {
			return nil, valueError
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

func yamlValueNode(value interface{}) (*yaml.Node, error) {
	switch typedValue := value.(type) {
	case *orderedMap:
		return typedValue.yamlNode()
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		node := &yaml.Node{}
		if encodeError := node.Encode(typedValue); encodeError != nil {
			return nil, encodeError
		}
		return node, nil
	}
}

// nestedBuilder reconstructs the nested mapping consumed by the JSON and YAML
// renderers: each file maps to a metadata object (or null when metadata was
// not collected) and each directory to an object carrying its aggregates plus
// a contents mapping of its children. The root directory's own children form
// the top-level mapping; its aggregates are appended under "_metadata".
type nestedBuilder struct {
	showMetadata  bool
	rootContents  *orderedMap
	rootDirectory *types.DirectoryMetadata
	contentsStack []*orderedMap
}

func newNestedBuilder(showMetadata bool) *nestedBuilder {
	return &nestedBuilder{showMetadata: showMetadata}
}

func (builder *nestedBuilder) add(entry types.Entry) error {
	if builder.rootContents == nil {
		if !entry.IsDir() || entry.Depth != 0 {
			return fmt.Errorf("nested builder: first entry %s is not the traversal root", entry.Path)
		}
		builder.rootContents = newOrderedMap()
		builder.rootDirectory = entry.Directory
		builder.contentsStack = []*orderedMap{builder.rootContents}
		return nil
	}

	if entry.Depth < 1 || entry.Depth > len(builder.contentsStack) {
		return fmt.Errorf("nested builder: entry %s at depth %d does not extend the current branch", entry.Path, entry.Depth)
	}
	builder.contentsStack = builder.contentsStack[:entry.Depth]
	parentContents := builder.contentsStack[entry.Depth-1]

	if entry.IsDir() {
		childContents := newOrderedMap()
		parentContents.set(entry.Name, builder.directoryValue(entry, childContents))
		builder.contentsStack = append(builder.contentsStack, childContents)
		return nil
	}
	parentContents.set(entry.Name, builder.fileValue(entry))
	return nil
}

// build finalizes and returns the top-level mapping.
func (builder *nestedBuilder) build() *orderedMap {
	if builder.rootContents == nil {
		return newOrderedMap()
	}
	if builder.showMetadata && builder.rootDirectory != nil {
		rootMetadata := newOrderedMap()
		rootMetadata.set(nestedFileCountKey, builder.rootDirectory.FileCount)
		rootMetadata.set(nestedTotalSizeKey, builder.rootDirectory.TotalSizeBytes)
		rootMetadata.set(nestedModifiedKey, modifiedValue(builder.rootDirectory.Modified))
		builder.rootContents.set(nestedRootMetaKey, rootMetadata)
	}
	return builder.rootContents
}

func (builder *nestedBuilder) directoryValue(entry types.Entry, contents *orderedMap) interface{} {
	if !builder.showMetadata || entry.Directory == nil {
		return contents
	}
	value := newOrderedMap()
	value.set(nestedTypeKey, types.EntryKindDirectory)
	value.set(nestedFileCountKey, entry.Directory.FileCount)
	value.set(nestedTotalSizeKey, entry.Directory.TotalSizeBytes)
	value.set(nestedModifiedKey, modifiedValue(entry.Directory.Modified))
	value.set(nestedContentsKey, contents)
	return value
}

func (builder *nestedBuilder) fileValue(entry types.Entry) interface{} {
	if !builder.showMetadata || entry.File == nil {
		return nil
	}
	value := newOrderedMap()
	value.set(nestedTypeKey, types.EntryKindFile)
	value.set(nestedSizeKey, entry.File.SizeBytes)
	value.set(nestedModifiedKey, modifiedValue(entry.File.Modified))
	return value
}

// modifiedValue renders a timestamp for machine formats: ISO-8601, or null
// for the unknown sentinel.
func modifiedValue(modified time.Time) interface{} {
	formatted := utils.FormatTimestampISO(modified)
	if formatted == "" {
		return nil
	}
	return formatted
}
