package space

import (
	"fmt"
	"strings"
)

// ParseError reports malformed space text.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("space: line %d: %s", e.Line, e.Msg)
}

// Parse reads the text form of a space.
func Parse(text string) (*Space, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	p := &parser{lines: strings.Split(text, "\n")}
	return p.block(0)
}

// MustParse is like Parse but panics on malformed input. It is meant for
// fixtures and package level declarations.
func MustParse(text string) *Space {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

type parser struct {
	lines []string
	pos   int
}

func (p *parser) block(depth int) (*Space, error) {
	s := New()
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if strings.TrimSpace(line) == "" {
			p.pos++
			continue
		}

		indent := indentOf(line)
		if indent < depth {
			return s, nil
		}
		if indent > depth {
			return nil, &ParseError{Line: p.pos + 1, Msg: "unexpected indentation"}
		}

		key, value, hasValue := strings.Cut(line[indent:], " ")
		if key == "" {
			return nil, &ParseError{Line: p.pos + 1, Msg: "empty key"}
		}
		p.pos++

		switch {
		case !hasValue:
			child, err := p.block(depth + 1)
			if err != nil {
				return nil, err
			}
			s.Set(key, child)
		case value == "":
			s.Set(key, p.text(depth+1))
		default:
			if next, ok := p.nextIndent(); ok && next > depth {
				return nil, &ParseError{
					Line: p.pos + 1,
					Msg:  fmt.Sprintf("indented block under value of %q", key),
				}
			}
			s.Set(key, value)
		}
	}
	return s, nil
}

// text collects a multi-line string whose lines are indented by depth.
func (p *parser) text(depth int) string {
	var lines []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if indentOf(line) >= depth {
			lines = append(lines, line[depth:])
			p.pos++
			continue
		}
		if strings.TrimSpace(line) != "" || !p.continuesAfter(depth) {
			break
		}
		lines = append(lines, "")
		p.pos++
	}
	return strings.Join(lines, "\n")
}

// continuesAfter reports whether a line indented by at least depth
// follows the run of short blank lines starting at the cursor.
func (p *parser) continuesAfter(depth int) bool {
	for i := p.pos; i < len(p.lines); i++ {
		line := p.lines[i]
		if indentOf(line) >= depth {
			return true
		}
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return false
}

// nextIndent returns the indentation of the next non-blank line.
func (p *parser) nextIndent() (int, bool) {
	for i := p.pos; i < len(p.lines); i++ {
		if strings.TrimSpace(p.lines[i]) != "" {
			return indentOf(p.lines[i]), true
		}
	}
	return 0, false
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}
