// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/moreati/cloudabi-utils/lib/argdata"
	"github.com/moreati/cloudabi-utils/lib/capability"
)

// TagPrefix is the tag namespace marking resource nodes in a manifest.
const TagPrefix = "tag:nuxi.nl,2015:cloudabi/"

// Compile reads the first YAML document from r and builds its argument
// data tree, resolving tagged resource nodes through res. The first
// error aborts compilation: either a *ParseError or a
// *capability.ResourceError propagates up through every construction
// level to the caller.
func Compile(r io.Reader, res *capability.Resolver) (*argdata.Value, error) {
	events, err := readEvents(r)
	if err != nil {
		return nil, err
	}
	b := &builder{events: events, resolver: res}
	v, err := b.parse()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &ParseError{Line: 1, Column: 1, Msg: "manifest contains no document"}
	}
	return v, nil
}

// builder is a recursive-descent consumer of the event stream. One
// parse call produces one value, or the nil sentinel on a
// collection-terminating event; map and sequence loops use the
// sentinel as their stop condition.
type builder struct {
	events   []event
	pos      int
	resolver *capability.Resolver
}

func (b *builder) next() event {
	e := b.events[b.pos]
	b.pos++
	return e
}

func (b *builder) peek() event {
	return b.events[b.pos]
}

// parse produces the value starting at the current event. A nil value
// with a nil error signals the end of the enclosing collection.
func (b *builder) parse() (*argdata.Value, error) {
	e := b.next()
	switch e.kind {
	case eventMappingStart:
		switch {
		case e.tag == "" || e.tag == "!!map":
			return b.parseMap()
		case resourceTag(e.tag) == "file":
			return b.parseFile(e)
		case resourceTag(e.tag) == "socket":
			return b.parseSocket(e)
		default:
			return nil, errAt(e, "unsupported tag for mapping: %s", e.tag)
		}
	case eventScalar:
		switch {
		case e.tag == "" || e.tag == "!!str":
			return argdata.Str(e.value), nil
		case e.tag == "!!bool":
			return parseBool(e)
		case e.tag == "!!int":
			return parseInt(e)
		case e.tag == "!!null":
			return argdata.Null(), nil
		case resourceTag(e.tag) == "fd":
			return b.resolveExisting(e)
		default:
			return nil, errAt(e, "unsupported tag for scalar: %s", e.tag)
		}
	case eventSequenceStart:
		if e.tag == "" || e.tag == "!!seq" {
			return b.parseSeq()
		}
		return nil, errAt(e, "unsupported tag for sequence: %s", e.tag)
	case eventMappingEnd, eventSequenceEnd:
		return nil, nil
	default:
		return nil, errAt(e, "unsupported alias node")
	}
}

// resourceTag maps a tag to its name within the resource namespace,
// accepting both the full form and the !name shorthand. It returns ""
// for tags outside the namespace.
func resourceTag(tag string) string {
	if name, ok := strings.CutPrefix(tag, TagPrefix); ok {
		return name
	}
	if name, ok := strings.CutPrefix(tag, "!"); ok && !strings.HasPrefix(name, "!") {
		return name
	}
	return ""
}

// parseBool accepts exactly the tokens "true" and "false".
func parseBool(e event) (*argdata.Value, error) {
	switch e.value {
	case "true":
		return argdata.Bool(true), nil
	case "false":
		return argdata.Bool(false), nil
	default:
		return nil, errAt(e, "unknown boolean value: %s", e.value)
	}
}

// parseInt parses an integer literal. A 0o or 0x prefix selects base 8
// or 16; otherwise base 10. A signed parse is attempted first, then an
// unsigned one, so the stored value is the narrowest representation
// that fits. Literals fitting neither are rejected.
func parseInt(e event) (*argdata.Value, error) {
	digits, base := e.value, 10
	switch {
	case strings.HasPrefix(e.value, "0o"):
		digits, base = e.value[2:], 8
	case strings.HasPrefix(e.value, "0x"):
		digits, base = e.value[2:], 16
	}
	if i, err := strconv.ParseInt(digits, base, 64); err == nil {
		return argdata.Int(i), nil
	}
	if u, err := strconv.ParseUint(digits, base, 64); err == nil {
		return argdata.Uint(u), nil
	}
	return nil, errAt(e, "invalid integer value")
}

func (b *builder) resolveExisting(e event) (*argdata.Value, error) {
	fd, err := b.resolver.ResolveExisting(e.value)
	if err != nil {
		var rerr *capability.ResourceError
		if errors.As(err, &rerr) {
			return nil, err
		}
		// Malformed token, not an OS failure.
		return nil, errAt(e, "%v", err)
	}
	return argdata.Fd(fd), nil
}

// parseMap builds a generic map, preserving entry order and performing
// no key uniqueness check. Keys must decode as strings.
func (b *builder) parseMap() (*argdata.Value, error) {
	var pairs []argdata.Pair
	for {
		keyEvent := b.peek()
		key, err := b.parse()
		if err != nil {
			return nil, err
		}
		if key == nil {
			return argdata.Map(pairs), nil
		}
		if _, err := key.Str(); err != nil {
			return nil, errAt(keyEvent, "map key must be a string")
		}
		value, err := b.parse()
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, errAt(keyEvent, "map entry has a key without a value")
		}
		pairs = append(pairs, argdata.Pair{Key: key, Value: value})
	}
}

// parseSeq builds a generic sequence.
func (b *builder) parseSeq() (*argdata.Value, error) {
	var elems []*argdata.Value
	for {
		el, err := b.parse()
		if err != nil {
			return nil, err
		}
		if el == nil {
			return argdata.Seq(elems), nil
		}
		elems = append(elems, el)
	}
}

// parseFile consumes a file resource mapping. The only attribute is
// path; anything else is fatal.
func (b *builder) parseFile(start event) (*argdata.Value, error) {
	var path string
	havePath := false
	for {
		key, value, err := b.parseAttribute(start)
		if err != nil {
			return nil, err
		}
		if key == "" && value == nil {
			break
		}
		switch key {
		case "path":
			p, err := value.Str()
			if err != nil {
				return nil, errAt(start, "bad path attribute: not a string")
			}
			path, havePath = p, true
		default:
			return nil, errAt(start, "unknown file attribute: %s", key)
		}
	}
	if !havePath {
		return nil, errAt(start, "missing path attribute")
	}
	fd, err := b.resolver.ResolveFile(path)
	if err != nil {
		return nil, err
	}
	return argdata.Fd(fd), nil
}

// parseSocket consumes a socket resource mapping with an optional type
// attribute and a required bind attribute.
func (b *builder) parseSocket(start event) (*argdata.Value, error) {
	sockType := capability.SocketStream
	var bind string
	haveBind := false
	for {
		key, value, err := b.parseAttribute(start)
		if err != nil {
			return nil, err
		}
		if key == "" && value == nil {
			break
		}
		switch key {
		case "type":
			t, err := value.Str()
			if err != nil {
				return nil, errAt(start, "bad type attribute: not a string")
			}
			sockType = t
		case "bind":
			s, err := value.Str()
			if err != nil {
				return nil, errAt(start, "bad bind attribute: not a string")
			}
			bind, haveBind = s, true
		default:
			return nil, errAt(start, "unknown socket attribute: %s", key)
		}
	}
	if !haveBind {
		return nil, errAt(start, "missing bind attribute")
	}
	fd, err := b.resolver.ResolveSocket(sockType, bind)
	if err != nil {
		var rerr *capability.ResourceError
		if errors.As(err, &rerr) {
			return nil, err
		}
		// An unsupported type attribute is malformed input.
		return nil, errAt(start, "%v", err)
	}
	return argdata.Fd(fd), nil
}

// parseAttribute reads one key/value pair of a resource attribute bag.
// It returns "" and nil at the end of the mapping.
func (b *builder) parseAttribute(start event) (string, *argdata.Value, error) {
	key, err := b.parse()
	if err != nil {
		return "", nil, err
	}
	if key == nil {
		return "", nil, nil
	}
	keyStr, err := key.Str()
	if err != nil {
		return "", nil, errAt(start, "bad attribute: not a string")
	}
	value, err := b.parse()
	if err != nil {
		return "", nil, err
	}
	if value == nil {
		return "", nil, errAt(start, "attribute %s has no value", keyStr)
	}
	return keyStr, value, nil
}
