package ast

// TypeCategory classifies a type descriptor.
type TypeCategory string

const (
	TypeFloating  TypeCategory = "floating"
	TypeIntegral  TypeCategory = "integral"
	TypeBool      TypeCategory = "bool"
	TypeVoid      TypeCategory = "void"
	TypeRecord    TypeCategory = "record"
	TypePointer   TypeCategory = "pointer"
	TypeReference TypeCategory = "reference"
	TypeArray     TypeCategory = "array"
	TypeFunction  TypeCategory = "function"
	TypeUnknown   TypeCategory = "unknown"
)

func (c TypeCategory) String() string { return string(c) }

// Type describes the declared type of a value. Aliases are resolved by the
// front end, so Category is always the canonical category while Spelling
// keeps what the source wrote.
type Type struct {
	Spelling string
	Category TypeCategory
	// Record is set for TypeRecord when the record is declared in the unit.
	Record NodeID
}

// IsFloatingPoint reports whether the type is float, double or long double.
func (t *Type) IsFloatingPoint() bool {
	return t != nil && t.Category == TypeFloating
}

func (t *Type) String() string {
	if t == nil {
		return ""
	}
	return t.Spelling
}

// NewType creates a type descriptor that does not name a record.
func NewType(spelling string, category TypeCategory) *Type {
	return &Type{Spelling: spelling, Category: category, Record: NoNode}
}
