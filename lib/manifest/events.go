// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// eventKind enumerates the tokenizer events the builder consumes.
// Stream and document boundaries are filtered out before the builder
// runs: only the first document of the input stream is read, and its
// content arrives as a flat event list.
type eventKind uint8

const (
	eventScalar eventKind = iota
	eventMappingStart
	eventMappingEnd
	eventSequenceStart
	eventSequenceEnd
	eventAlias
)

// event is one tokenizer event with its explicit tag (empty when the
// node was untagged in the source) and 1-based position.
type event struct {
	kind   eventKind
	tag    string
	value  string
	line   int
	column int
}

// readEvents decodes the first YAML document from r and flattens it
// into an event list. Subsequent documents in the stream are never
// read.
func readEvents(r io.Reader) ([]event, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Line: 1, Column: 1, Msg: "manifest contains no document"}
		}
		return nil, wrapYAMLError(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Line: 1, Column: 1, Msg: "manifest contains no document"}
	}
	return flatten(doc.Content[0], nil), nil
}

// flatten appends the event representation of n to events, depth
// first. Collection end events reuse the start position; they serve
// only as sentinels.
func flatten(n *yaml.Node, events []event) []event {
	switch n.Kind {
	case yaml.ScalarNode:
		return append(events, event{
			kind:   eventScalar,
			tag:    explicitTag(n),
			value:  n.Value,
			line:   n.Line,
			column: n.Column,
		})
	case yaml.MappingNode:
		events = append(events, event{
			kind:   eventMappingStart,
			tag:    explicitTag(n),
			line:   n.Line,
			column: n.Column,
		})
		for _, c := range n.Content {
			events = flatten(c, events)
		}
		return append(events, event{kind: eventMappingEnd, line: n.Line, column: n.Column})
	case yaml.SequenceNode:
		events = append(events, event{
			kind:   eventSequenceStart,
			tag:    explicitTag(n),
			line:   n.Line,
			column: n.Column,
		})
		for _, c := range n.Content {
			events = flatten(c, events)
		}
		return append(events, event{kind: eventSequenceEnd, line: n.Line, column: n.Column})
	case yaml.DocumentNode:
		for _, c := range n.Content {
			events = flatten(c, events)
		}
		return events
	default:
		// Alias nodes. The builder rejects them with a position.
		return append(events, event{kind: eventAlias, line: n.Line, column: n.Column})
	}
}

// explicitTag returns the node's tag only when it was written in the
// source. yaml.v3 resolves implicit tags (a plain 42 reports !!int),
// but at the event level an untagged scalar is just a string, so
// implicit resolutions are discarded.
func explicitTag(n *yaml.Node) string {
	if n.Style&yaml.TaggedStyle == 0 {
		return ""
	}
	return n.Tag
}

var yamlLinePattern = regexp.MustCompile(`line (\d+):`)

// wrapYAMLError converts a yaml.v3 error into a ParseError, recovering
// the line number from the error text where present. yaml.v3 does not
// expose column positions for syntax errors.
func wrapYAMLError(err error) error {
	line := 1
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			line = n
		}
	}
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	return &ParseError{Line: line, Column: 1, Msg: fmt.Sprintf("parse error: %s", msg)}
}
