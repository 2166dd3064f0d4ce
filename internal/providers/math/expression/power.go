package expression

import (
	"cmp"
	"slices"
	"strings"
)

// The parser follows ECMAScript, where a unary operator directly before **
// is a syntax error. Formulas are written in the usual math notation, so
// -x ** 2 means -(x ** 2). groupPowers rewrites such operands by inserting
// parentheses and leaves everything else untouched.

type lexeme struct {
	text       string
	start, end int
	operand    bool
}

var punctuators = []string{
	">>>=", "...", "===", "!==", "**=", ">>>", "<<=", ">>=",
	"**", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "=>", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>",
}

func lex(src string) []lexeme {
	var out []lexeme
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			i++
		case isDigit(c) || c == '.' && i+1 < len(src) && isDigit(src[i+1]):
			hex := strings.HasPrefix(strings.ToLower(src[i:]), "0x")
			j := i + 1
			for j < len(src) {
				d := src[j]
				if isIdentPart(d) || d == '.' || !hex && (d == '+' || d == '-') && (src[j-1] == 'e' || src[j-1] == 'E') {
					j++
					continue
				}
				break
			}
			out = append(out, lexeme{text: src[i:j], start: i, end: j, operand: true})
			i = j
		case c == '"' || c == '\'' || c == '`':
			j := i + 1
			for j < len(src) && src[j] != c {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			j = min(j+1, len(src))
			out = append(out, lexeme{text: src[i:j], start: i, end: j, operand: true})
			i = j
		case isIdentPart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			out = append(out, lexeme{text: src[i:j], start: i, end: j, operand: true})
			i = j
		default:
			n := 1
			for _, p := range punctuators {
				if strings.HasPrefix(src[i:], p) {
					n = len(p)
					break
				}
			}
			out = append(out, lexeme{text: src[i : i+n], start: i, end: i + n})
			i += n
		}
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentPart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '$' || c >= 0x80
}

func (l lexeme) is(s string) bool { return !l.operand && l.text == s }

func (l lexeme) unary() bool {
	return l.is("-") || l.is("+") || l.is("!") || l.is("~")
}

func (l lexeme) opener() bool { return l.is("(") || l.is("[") || l.is("{") }

func (l lexeme) closer() bool { return l.is(")") || l.is("]") || l.is("}") }

type insertion struct {
	at   int
	text string
}

type powerGrouper struct {
	lex     []lexeme
	inserts []insertion
}

// groupPowers returns src with every unary operand of ** parenthesised, and
// the 0-based offsets of the inserted characters in the result. ok is false
// when nothing needed rewriting.
func groupPowers(src string) (text string, inserted []int, ok bool) {
	g := &powerGrouper{lex: lex(src)}
	for i := 0; i < len(g.lex); i++ {
		i = g.seq(i)
	}
	if len(g.inserts) == 0 {
		return src, nil, false
	}

	slices.SortStableFunc(g.inserts, func(a, b insertion) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(b.text, a.text) // ")" before "("
	})

	var sb strings.Builder
	last := 0
	for _, ins := range g.inserts {
		sb.WriteString(src[last:ins.at])
		inserted = append(inserted, sb.Len())
		sb.WriteString(ins.text)
		last = ins.at
	}
	sb.WriteString(src[last:])
	return sb.String(), inserted, true
}

// seq walks tokens up to an unmatched closer and returns its index.
func (g *powerGrouper) seq(i int) int {
	prefix := true
	for i < len(g.lex) {
		l := g.lex[i]
		switch {
		case l.closer():
			return i
		case prefix && l.unary():
			i = g.unary(i)
			prefix = false
		case l.opener():
			i = g.group(i)
			prefix = false
		default:
			prefix = !l.operand
			i++
		}
	}
	return i
}

func (g *powerGrouper) group(i int) int {
	j := g.seq(i + 1)
	if j < len(g.lex) {
		return j + 1
	}
	return j
}

// unary consumes a run of prefix operators and their operand. When the operand
// is the base of **, the whole power is wrapped so the prefix applies to it.
func (g *powerGrouper) unary(i int) int {
	for i < len(g.lex) && g.lex[i].unary() {
		i++
	}
	start := i
	i = g.chain(i)
	if i > start && i < len(g.lex) && g.lex[i].is("**") {
		end := g.power(i + 1)
		if end > i+1 {
			g.inserts = append(g.inserts,
				insertion{at: g.lex[start].start, text: "("},
				insertion{at: g.lex[end-1].end, text: ")"})
		}
		return end
	}
	return i
}

// power consumes the exponent of **, which is right associative.
func (g *powerGrouper) power(i int) int {
	if i < len(g.lex) && g.lex[i].unary() {
		return g.unary(i)
	}
	start := i
	i = g.chain(i)
	if i > start && i < len(g.lex) && g.lex[i].is("**") {
		return g.power(i + 1)
	}
	return i
}

// chain consumes a primary with its calls, subscripts and member accesses.
func (g *powerGrouper) chain(i int) int {
	if i >= len(g.lex) {
		return i
	}
	switch l := g.lex[i]; {
	case l.opener():
		i = g.group(i)
	case l.operand:
		i++
	default:
		return i
	}
	for i < len(g.lex) {
		l := g.lex[i]
		switch {
		case l.is("(") || l.is("["):
			i = g.group(i)
		case l.is(".") && i+1 < len(g.lex) && g.lex[i+1].operand:
			i += 2
		default:
			return i
		}
	}
	return i
}

// sourcePos maps a 1-based offset in the rewritten text back to src.
func sourcePos(pos int, inserted []int) int {
	if pos <= 0 {
		return pos
	}
	p := pos - 1
	n := 0
	for _, at := range inserted {
		if at < p {
			n++
		}
	}
	return p - n + 1
}
