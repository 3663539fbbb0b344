package templating

import (
	"fmt"
	"strings"
)

// The markup is a small subset of the historical tag syntax:
//
//	<ion:user>...</ion:user>   paired tag with nested content
//	<ion:name />               self-closing tag
//	<ion:logged is="false">    attributes, double-quoted
//
// Anything outside tags is passed through verbatim.

const (
	openMark  = "<ion:"
	closeMark = "</ion:"
)

type node interface{}

type textNode string

type tagNode struct {
	name     string
	attrs    map[string]string
	children []node
}

func parse(src string) ([]node, error) {
	p := &parser{src: src}
	nodes, err := p.parseNodes("")
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("unexpected closing tag at offset %d", p.pos)
	}
	return nodes, nil
}

type parser struct {
	src string
	pos int
}

// parseNodes consumes nodes until the closing tag of enclosing (or EOF for
// the document root).
func (p *parser) parseNodes(enclosing string) ([]node, error) {
	var nodes []node
	for p.pos < len(p.src) {
		open := strings.Index(p.src[p.pos:], openMark)
		close := strings.Index(p.src[p.pos:], closeMark)

		// closeMark also contains openMark's prefix, disambiguate
		if close >= 0 && (open < 0 || close <= open-1) {
			// text before the closing tag
			if close > 0 {
				nodes = append(nodes, textNode(p.src[p.pos:p.pos+close]))
			}
			p.pos += close
			if enclosing == "" {
				return nodes, nil // caller reports the stray close
			}
			return nodes, p.consumeClose(enclosing)
		}

		if open < 0 {
			nodes = append(nodes, textNode(p.src[p.pos:]))
			p.pos = len(p.src)
			break
		}

		if open > 0 {
			nodes = append(nodes, textNode(p.src[p.pos:p.pos+open]))
			p.pos += open
		}

		tag, err := p.parseTag()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, tag)
	}

	if enclosing != "" {
		return nil, fmt.Errorf("missing </ion:%s>", enclosing)
	}
	return nodes, nil
}

// parseTag consumes one <ion:...> opening and, for paired tags, its nested
// content up to the matching close.
func (p *parser) parseTag() (*tagNode, error) {
	p.pos += len(openMark)
	name := p.consumeName()
	if name == "" {
		return nil, fmt.Errorf("empty tag name at offset %d", p.pos)
	}

	tag := &tagNode{name: name, attrs: map[string]string{}}

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated tag <ion:%s>", name)
		}
		if strings.HasPrefix(p.src[p.pos:], "/>") {
			p.pos += 2
			return tag, nil
		}
		if p.src[p.pos] == '>' {
			p.pos++
			children, err := p.parseNodes(name)
			if err != nil {
				return nil, err
			}
			tag.children = children
			return tag, nil
		}

		key := p.consumeName()
		if key == "" {
			return nil, fmt.Errorf("bad attribute in <ion:%s> at offset %d", name, p.pos)
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '=' {
			// bare attribute, treated as ="true"
			tag.attrs[key] = "true"
			continue
		}
		p.pos++
		p.skipSpace()
		val, err := p.consumeQuoted()
		if err != nil {
			return nil, fmt.Errorf("attribute %s of <ion:%s>: %w", key, name, err)
		}
		tag.attrs[key] = val
	}
}

func (p *parser) consumeClose(name string) error {
	want := closeMark + name + ">"
	if !strings.HasPrefix(p.src[p.pos:], want) {
		return fmt.Errorf("expected </ion:%s> at offset %d", name, p.pos)
	}
	p.pos += len(want)
	return nil
}

func (p *parser) consumeName() string {
	start := p.pos
	for p.pos < len(p.src) && isNameRune(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) consumeQuoted() (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return "", fmt.Errorf("expected quoted value at offset %d", p.pos)
	}
	p.pos++
	end := strings.IndexByte(p.src[p.pos:], '"')
	if end < 0 {
		return "", fmt.Errorf("unterminated quoted value at offset %d", p.pos)
	}
	val := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	return val, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isNameRune(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == ':'
}
