package piles

import (
	"fmt"
	"strings"
)

// FieldKind names a family of piles on the board.
type FieldKind int

const (
	FieldNone FieldKind = iota
	FieldFree
	FieldFoundations
	FieldTableau
	FieldStock
	FieldWaste
)

// Pile counts per field.
const (
	FreeCells      = 4
	Foundations    = 4
	TableauColumns = 8
)

func (f FieldKind) String() string {
	switch f {
	case FieldFree:
		return "free"
	case FieldFoundations:
		return "foundations"
	case FieldTableau:
		return "tableau"
	case FieldStock:
		return "stock"
	case FieldWaste:
		return "waste"
	default:
		return "none"
	}
}

// Count returns how many piles the field has.
func (f FieldKind) Count() int {
	switch f {
	case FieldFree:
		return FreeCells
	case FieldFoundations:
		return Foundations
	case FieldTableau:
		return TableauColumns
	case FieldStock, FieldWaste:
		return 1
	default:
		return 0
	}
}

// ParseFieldKind is the inverse of String.
func ParseFieldKind(s string) (FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return FieldFree, nil
	case "foundations", "foundation":
		return FieldFoundations, nil
	case "tableau":
		return FieldTableau, nil
	case "stock":
		return FieldStock, nil
	case "waste":
		return FieldWaste, nil
	case "", "none":
		return FieldNone, nil
	default:
		return FieldNone, fmt.Errorf("unknown field %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f FieldKind) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FieldKind) UnmarshalText(text []byte) error {
	kind, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*f = kind
	return nil
}

// PileRef addresses a single pile. Numbers are zero-based.
type PileRef struct {
	Field  FieldKind `json:"field"`
	Number int       `json:"number"`
}

// Valid reports whether the ref names an existing pile.
func (r PileRef) Valid() bool {
	return r.Number >= 0 && r.Number < r.Field.Count()
}

func (r PileRef) String() string {
	return fmt.Sprintf("%s-%d", r.Field, r.Number)
}

// Location is a position inside a pile. Order is the index from the bottom.
type Location struct {
	Field  FieldKind `json:"field"`
	Number int       `json:"number"`
	Order  int       `json:"order"`
}

// Pile drops the order.
func (l Location) Pile() PileRef {
	return PileRef{Field: l.Field, Number: l.Number}
}

func (l Location) String() string {
	return fmt.Sprintf("%s-%d[%d]", l.Field, l.Number, l.Order)
}
