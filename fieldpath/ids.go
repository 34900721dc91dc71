package fieldpath

import (
	"strconv"
	"strings"
)

// Identifier role prefixes.
const (
	GroupPrefix       = "group-"
	ItemPrefix        = "array-item-"
	SectionPrefix     = "section-"
	FieldPrefix       = "field-"
	PlaceholderPrefix = "placeholder-"
	idSeparator       = '-'
	idEscape          = '.'
	idHexDigits       = "0123456789abcdef"
)

// GroupID names the presentation group bound to p.
func GroupID(p Path) string { return GroupPrefix + encodeID(p) }

// SectionID names the section header bound to p.
func SectionID(p Path) string { return SectionPrefix + encodeID(p) }

// FieldID names the control bound to p.
func FieldID(p Path) string { return FieldPrefix + encodeID(p) }

// PlaceholderID names the activation placeholder of an optional subtree.
func PlaceholderID(p Path) string { return PlaceholderPrefix + encodeID(p) }

// ItemID names the element at index of the array at arrayPath.
func ItemID(arrayPath Path, index int) string {
	return ItemPrefix + encodeID(arrayPath.Index(index))
}

// encodeID joins tokens with '-' and encodes the root as "". Bytes outside
// [A-Za-z0-9_] inside names are written as '.' plus two hex digits, and so
// is the first byte of an all-digit name, which keeps names, indices and
// separators apart.
func encodeID(p Path) string {
	b := &strings.Builder{}
	for i, t := range p {
		if i > 0 {
			b.WriteByte(idSeparator)
		}
		if t.IsIndex {
			b.WriteString(strconv.Itoa(t.Index))
			continue
		}
		if t.Name == "" {
			b.WriteByte(idEscape)
			continue
		}
		digits := isDigits(t.Name)
		for j := 0; j < len(t.Name); j++ {
			c := t.Name[j]
			if (j == 0 && digits) || !idSafe(c) {
				b.WriteByte(idEscape)
				b.WriteByte(idHexDigits[c>>4])
				b.WriteByte(idHexDigits[c&0x0f])
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

func idSafe(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
