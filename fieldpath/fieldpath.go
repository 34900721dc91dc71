// Package fieldpath addresses locations in a data document.
//
// A Path is a sequence of tokens, each either a property name or a
// zero-based array index. It has two textual encodings that convert
// losslessly into each other:
//
//	dotted/bracketed  a.b[2].c
//	JSON Pointer      /a/b/2/c
//
// In the dotted form a name must not be empty, must not contain '.', '['
// or ']', and must not consist only of digits (numeric tokens are always
// indices and are written in brackets).
package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax reports a malformed dotted path or pointer.
var ErrSyntax = errors.New("fieldpath: syntax error")

// Token is one step of a Path.
type Token struct {
	Name    string
	Index   int
	IsIndex bool
}

// Name returns a property token.
func Name(name string) Token { return Token{Name: name} }

// Index returns an array index token.
func Index(i int) Token { return Token{Index: i, IsIndex: true} }

func (t Token) String() string {
	if t.IsIndex {
		return "[" + strconv.Itoa(t.Index) + "]"
	}
	return t.Name
}

// Path is an immutable token sequence. Methods that extend a Path return a
// fresh copy so that sibling paths never share backing arrays.
type Path []Token

// Field returns p extended by a property name.
func (p Path) Field(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Name(name))
}

// Index returns p extended by an array index.
func (p Path) Index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Index(i))
}

// Parent drops the last token. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final token and false for the root path.
func (p Path) Last() (Token, bool) {
	if len(p) == 0 {
		return Token{}, false
	}
	return p[len(p)-1], true
}

// IsRoot reports whether p addresses the document root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// HasPrefix reports whether q is a (non-strict) prefix of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both paths hold the same tokens.
func (p Path) Equal(q Path) bool {
	return len(p) == len(q) && p.HasPrefix(q)
}

// String renders the dotted/bracketed form.
func (p Path) String() string {
	b := &strings.Builder{}
	for i, t := range p {
		if t.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(t.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
	}
	return b.String()
}

// Pointer renders the RFC 6901 JSON Pointer form. The root is "".
func (p Path) Pointer() string {
	b := &strings.Builder{}
	for _, t := range p {
		b.WriteByte('/')
		if t.IsIndex {
			b.WriteString(strconv.Itoa(t.Index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(t.Name, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// Parse reads the dotted/bracketed form. The empty string is the root.
func Parse(s string) (Path, error) {
	var p Path
	i := 0
	expectName := true
	for i < len(s) {
		switch s[i] {
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated index in %q", ErrSyntax, s)
			}
			n, err := parseIndex(s[i+1 : i+end])
			if err != nil {
				return nil, fmt.Errorf("%w: bad index in %q", ErrSyntax, s)
			}
			p = append(p, Index(n))
			i += end + 1
			expectName = false
		case '.':
			if expectName {
				return nil, fmt.Errorf("%w: empty name in %q", ErrSyntax, s)
			}
			i++
			expectName = true
			if i == len(s) {
				return nil, fmt.Errorf("%w: trailing '.' in %q", ErrSyntax, s)
			}
		default:
			if !expectName {
				return nil, fmt.Errorf("%w: missing '.' before name in %q", ErrSyntax, s)
			}
			end := strings.IndexAny(s[i:], ".[]")
			if end < 0 {
				end = len(s) - i
			}
			name := s[i : i+end]
			if name == "" {
				return nil, fmt.Errorf("%w: unexpected ']' in %q", ErrSyntax, s)
			}
			if isDigits(name) {
				return nil, fmt.Errorf("%w: numeric name %q must be written as [%s]", ErrSyntax, name, name)
			}
			p = append(p, Name(name))
			i += end
			expectName = false
		}
	}
	return p, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromPointer reads an RFC 6901 pointer. Segments made only of digits are
// array indices.
func FromPointer(ptr string) (Path, error) {
	if ptr == "" {
		return Path{}, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("%w: pointer %q must start with '/'", ErrSyntax, ptr)
	}
	parts := strings.Split(ptr[1:], "/")
	p := make(Path, 0, len(parts))
	for _, seg := range parts {
		if isDigits(seg) {
			n, err := parseIndex(seg)
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrSyntax, seg, ptr)
			}
			p = append(p, Index(n))
			continue
		}
		name, err := unescape(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v in %q", ErrSyntax, err, ptr)
		}
		p = append(p, Name(name))
	}
	return p, nil
}

// ToPointer converts a dotted path into a JSON Pointer.
func ToPointer(dotted string) (string, error) {
	p, err := Parse(dotted)
	if err != nil {
		return "", err
	}
	return p.Pointer(), nil
}

// ToPath converts a JSON Pointer into the dotted form.
func ToPath(ptr string) (string, error) {
	p, err := FromPointer(ptr)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

func unescape(seg string) (string, error) {
	if !strings.Contains(seg, "~") {
		return seg, nil
	}
	b := &strings.Builder{}
	for i := 0; i < len(seg); i++ {
		if seg[i] != '~' {
			b.WriteByte(seg[i])
			continue
		}
		if i+1 >= len(seg) {
			return "", errors.New("dangling '~'")
		}
		switch seg[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", fmt.Errorf("invalid escape '~%c'", seg[i+1])
		}
		i++
	}
	return b.String(), nil
}

func parseIndex(s string) (int, error) {
	if !isDigits(s) || (len(s) > 1 && s[0] == '0') {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
