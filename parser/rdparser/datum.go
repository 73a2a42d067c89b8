package rdparser

import (
	"strings"

	"github.com/brownplt/BlockLang-sub000/parser/token"
)

// DatumType is the type of a Datum
type DatumType uint

// Possible DatumType values
const (
	DatumInvalid DatumType = iota
	DatumSymbol
	DatumNumber
	DatumString
	DatumChar
	DatumBool
	DatumKeyword
	DatumDot
	DatumList
	DatumQuote
)

var datumTypeStrings = []string{
	DatumInvalid: "INVALID",
	DatumSymbol:  "symbol",
	DatumNumber:  "number",
	DatumString:  "string",
	DatumChar:    "char",
	DatumBool:    "boolean",
	DatumKeyword: "keyword",
	DatumDot:     "dot",
	DatumList:    "list",
	DatumQuote:   "quote",
}

func (t DatumType) String() string {
	if int(t) >= len(datumTypeStrings) {
		return datumTypeStrings[DatumInvalid]
	}
	return datumTypeStrings[t]
}

// Datum is an unevaluated piece of source text: an atom or a bracketed list
// of data.  The reader turns data into ray expressions.
type Datum struct {
	Type DatumType
	// Text holds the token text of atoms.  Strings are unquoted, chars hold
	// the text after #\ and keywords the text after #:.
	Text string
	// Cells holds the elements of a list or the single quoted datum.
	Cells []*Datum
	// Brace is true for lists delimited by [ ].
	Brace  bool
	Source *token.Location
}

// IsSymbol returns true if d is the symbol name.
func (d *Datum) IsSymbol(name string) bool {
	return d != nil && d.Type == DatumSymbol && d.Text == name
}

func (d *Datum) String() string {
	var buf strings.Builder
	d.write(&buf)
	return buf.String()
}

func (d *Datum) write(buf *strings.Builder) {
	switch d.Type {
	case DatumList:
		open, close := "(", ")"
		if d.Brace {
			open, close = "[", "]"
		}
		buf.WriteString(open)
		for i, c := range d.Cells {
			if i > 0 {
				buf.WriteString(" ")
			}
			c.write(buf)
		}
		buf.WriteString(close)
	case DatumQuote:
		buf.WriteString("'")
		d.Cells[0].write(buf)
	case DatumString:
		buf.WriteString(`"` + strings.ReplaceAll(d.Text, `"`, `\"`) + `"`)
	case DatumChar:
		buf.WriteString(`#\` + d.Text)
	case DatumKeyword:
		buf.WriteString("#:" + d.Text)
	case DatumDot:
		buf.WriteString(".")
	default:
		buf.WriteString(d.Text)
	}
}
