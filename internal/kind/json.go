package kind

import (
	"encoding/json"
	"fmt"
)

// wireKind is the tagged JSON form of a Kind tree, used by the run
// cache to persist inference results across generator invocations.
type wireKind struct {
	Kind    string              `json:"kind"`
	Value   string              `json:"value,omitempty"`
	Fields  map[string]wireKind `json:"fields,omitempty"`
	Element *wireKind           `json:"element,omitempty"`
	Inner   *wireKind           `json:"inner,omitempty"`
	Members []wireKind          `json:"members,omitempty"`
	Tables  []string            `json:"tables,omitempty"`
}

// Marshal renders k as its tagged JSON wire form.
func Marshal(k Kind) ([]byte, error) {
	w, err := toWire(k)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Unmarshal parses a tagged JSON wire form back into a Kind.
// Unmarshal(Marshal(k)) is structurally equal to k for every valid k.
func Unmarshal(data []byte) (Kind, error) {
	var w wireKind
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return fromWire(w)
}

func toWire(k Kind) (wireKind, error) {
	switch v := k.(type) {
	case Any:
		return wireKind{Kind: "any"}, nil
	case Never:
		return wireKind{Kind: "never"}, nil
	case Unknown:
		return wireKind{Kind: "unknown"}, nil
	case Null:
		return wireKind{Kind: "null"}, nil
	case Bool:
		return wireKind{Kind: "bool"}, nil
	case String:
		return wireKind{Kind: "string"}, nil
	case Int:
		return wireKind{Kind: "int"}, nil
	case Float:
		return wireKind{Kind: "float"}, nil
	case Number:
		return wireKind{Kind: "number"}, nil
	case Decimal:
		return wireKind{Kind: "decimal"}, nil
	case Datetime:
		return wireKind{Kind: "datetime"}, nil
	case Duration:
		return wireKind{Kind: "duration"}, nil
	case Uuid:
		return wireKind{Kind: "uuid"}, nil
	case StringLit:
		return wireKind{Kind: "string_lit", Value: v.Value}, nil
	case NumberLit:
		return wireKind{Kind: "number_lit", Value: v.Value}, nil
	case DurationLit:
		return wireKind{Kind: "duration_lit", Value: v.Value}, nil
	case Object:
		fields := make(map[string]wireKind, len(v.Fields))
		for name, fk := range v.Fields {
			w, err := toWire(fk)
			if err != nil {
				return wireKind{}, err
			}
			fields[name] = w
		}
		return wireKind{Kind: "object", Fields: fields}, nil
	case Array:
		elem, err := toWire(v.Element)
		if err != nil {
			return wireKind{}, err
		}
		return wireKind{Kind: "array", Element: &elem}, nil
	case Option:
		inner, err := toWire(v.Inner)
		if err != nil {
			return wireKind{}, err
		}
		return wireKind{Kind: "option", Inner: &inner}, nil
	case Either:
		members := make([]wireKind, len(v.Members))
		for i, m := range v.Members {
			w, err := toWire(m)
			if err != nil {
				return wireKind{}, err
			}
			members[i] = w
		}
		return wireKind{Kind: "either", Members: members}, nil
	case Record:
		return wireKind{Kind: "record", Tables: v.Tables}, nil
	default:
		return wireKind{}, fmt.Errorf("kind %T has no wire form", k)
	}
}

func fromWire(w wireKind) (Kind, error) {
	switch w.Kind {
	case "any":
		return Any{}, nil
	case "never":
		return Never{}, nil
	case "unknown":
		return Unknown{}, nil
	case "null":
		return Null{}, nil
	case "bool":
		return Bool{}, nil
	case "string":
		return String{}, nil
	case "int":
		return Int{}, nil
	case "float":
		return Float{}, nil
	case "number":
		return Number{}, nil
	case "decimal":
		return Decimal{}, nil
	case "datetime":
		return Datetime{}, nil
	case "duration":
		return Duration{}, nil
	case "uuid":
		return Uuid{}, nil
	case "string_lit":
		return StringLit{Value: w.Value}, nil
	case "number_lit":
		return NumberLit{Value: w.Value}, nil
	case "duration_lit":
		return DurationLit{Value: w.Value}, nil
	case "object":
		fields := make(map[string]Kind, len(w.Fields))
		for name, fw := range w.Fields {
			fk, err := fromWire(fw)
			if err != nil {
				return nil, err
			}
			fields[name] = fk
		}
		return Object{Fields: fields}, nil
	case "array":
		if w.Element == nil {
			return nil, fmt.Errorf("array wire form missing element")
		}
		elem, err := fromWire(*w.Element)
		if err != nil {
			return nil, err
		}
		return Array{Element: elem}, nil
	case "option":
		if w.Inner == nil {
			return nil, fmt.Errorf("option wire form missing inner")
		}
		inner, err := fromWire(*w.Inner)
		if err != nil {
			return nil, err
		}
		return Option{Inner: inner}, nil
	case "either":
		members := make([]Kind, len(w.Members))
		for i, mw := range w.Members {
			m, err := fromWire(mw)
			if err != nil {
				return nil, err
			}
			members[i] = m
		}
		return Either{Members: members}, nil
	case "record":
		if len(w.Tables) == 0 {
			return nil, fmt.Errorf("record wire form missing tables")
		}
		return Record{Tables: w.Tables}, nil
	default:
		return nil, fmt.Errorf("unknown kind tag %q", w.Kind)
	}
}
