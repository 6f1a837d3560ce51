package kind

import (
	"fmt"
	"strings"
)

// Render renders a human-readable, multi-line form of k, used in
// diagnostics and in the doc comment the emitter writes above each
// query's generated type alias.
func Render(k Kind) string {
	var b strings.Builder
	writeKind(&b, k, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func writeKind(b *strings.Builder, k Kind, depth int) {
	switch v := k.(type) {
	case Any:
		b.WriteString("any")
	case Never:
		b.WriteString("never")
	case Unknown:
		b.WriteString("unknown")
	case Null:
		b.WriteString("null")
	case Bool:
		b.WriteString("bool")
	case String:
		b.WriteString("string")
	case Int:
		b.WriteString("int")
	case Float:
		b.WriteString("float")
	case Number:
		b.WriteString("number")
	case Decimal:
		b.WriteString("decimal")
	case Datetime:
		b.WriteString("datetime")
	case Duration:
		b.WriteString("duration")
	case Uuid:
		b.WriteString("uuid")
	case StringLit:
		fmt.Fprintf(b, "%q", v.Value)
	case NumberLit:
		b.WriteString(v.Value)
	case DurationLit:
		b.WriteString(v.Value)
	case Record:
		b.WriteString("record<")
		b.WriteString(strings.Join(v.Tables, " | "))
		b.WriteString(">")
	case Option:
		b.WriteString("option<")
		writeKind(b, v.Inner, depth)
		b.WriteString(">")
	case Array:
		b.WriteString("array<")
		writeKind(b, v.Element, depth)
		b.WriteString(">")
	case Either:
		for i, m := range v.Members {
			if i > 0 {
				b.WriteString(" | ")
			}
			writeKind(b, m, depth)
		}
	case Object:
		if len(v.Fields) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for _, name := range v.Keys() {
			indent(b, depth+1)
			b.WriteString(name)
			b.WriteString(": ")
			writeKind(b, v.Fields[name], depth+1)
			b.WriteString(",\n")
		}
		indent(b, depth)
		b.WriteString("}")
	default:
		b.WriteString("?")
	}
}
