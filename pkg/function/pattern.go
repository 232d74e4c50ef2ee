package function

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// Pattern is a compiled SQL template with positional placeholders.
//
// ?n is replaced by the n-th (1-based) argument. ?n... is replaced by the
// n-th argument followed by all remaining arguments, comma separated.
type Pattern struct {
	text   string
	chunks []chunk
	maxArg int
}

type chunk struct {
	literal  string
	arg      int // 0 for literal chunks
	variadic bool
}

// ParsePattern compiles a template.
func ParsePattern(tpl string) (*Pattern, error) {
	p := &Pattern{text: tpl}
	var lit strings.Builder
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		if c != '?' || i+1 >= len(tpl) || !isDigit(tpl[i+1]) {
			lit.WriteByte(c)
			continue
		}
		j := i + 1
		n := 0
		for j < len(tpl) && isDigit(tpl[j]) {
			n = n*10 + int(tpl[j]-'0')
			j++
		}
		if n == 0 {
			return nil, fmt.Errorf("pattern %q: placeholders are 1-based, found ?0", tpl)
		}
		variadic := strings.HasPrefix(tpl[j:], "...")
		if variadic {
			j += 3
		}
		if lit.Len() > 0 {
			p.chunks = append(p.chunks, chunk{literal: lit.String()})
			lit.Reset()
		}
		p.chunks = append(p.chunks, chunk{arg: n, variadic: variadic})
		if n > p.maxArg {
			p.maxArg = n
		}
		i = j - 1
	}
	if lit.Len() > 0 {
		p.chunks = append(p.chunks, chunk{literal: lit.String()})
	}
	return p, nil
}

// MustPattern compiles a template and panics when it is malformed.
// It is meant for registration code.
func MustPattern(tpl string) *Pattern {
	p, err := ParsePattern(tpl)
	if err != nil {
		panic(err)
	}
	return p
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// String returns the template text.
func (p *Pattern) String() string { return p.text }

// MaxArg returns the highest placeholder referenced.
func (p *Pattern) MaxArg() int { return p.maxArg }

// Render appends the template with its placeholders replaced by the
// rendered arguments.
func (p *Pattern) Render(out Appender, args []core.Expr, t Translator) error {
	for _, c := range p.chunks {
		if c.arg == 0 {
			out.AppendSQL(c.literal)
			continue
		}
		if c.arg > len(args) {
			return &PatternError{Pattern: p.text, Placeholder: c.arg, Args: len(args)}
		}
		if !c.variadic {
			if err := t.Render(args[c.arg-1]); err != nil {
				return err
			}
			continue
		}
		for i, a := range args[c.arg-1:] {
			if i > 0 {
				out.AppendSQL(",")
			}
			if err := t.Render(a); err != nil {
				return err
			}
		}
	}
	return nil
}
