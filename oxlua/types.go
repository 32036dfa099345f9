package oxlua

// TargetType is the representational kind a source type lowers to. The
// target has a single numeric representation, so every integer and float
// width collapses into TargetNumber.
type TargetType string

const (
	TargetNumber  TargetType = "number"
	TargetBoolean TargetType = "boolean"
	TargetString  TargetType = "string"
	TargetNone    TargetType = "" // unit; suppressed in emission, never assigned
)

var sourceTypes = map[string]TargetType{
	"i8":     TargetNumber,
	"i16":    TargetNumber,
	"i32":    TargetNumber,
	"i64":    TargetNumber,
	"isize":  TargetNumber,
	"u8":     TargetNumber,
	"u16":    TargetNumber,
	"u32":    TargetNumber,
	"u64":    TargetNumber,
	"usize":  TargetNumber,
	"f32":    TargetNumber,
	"f64":    TargetNumber,
	"bool":   TargetBoolean,
	"str":    TargetString,
	"String": TargetString,
	"()":     TargetNone,
}

// mapType resolves a source type annotation to its target kind. The table is
// total over the supported subset; anything else reports false so the
// generator can reject it with the annotation's span.
func mapType(name string) (TargetType, bool) {
	ty, ok := sourceTypes[name]
	return ty, ok
}

// inferType guesses a target kind from an initializer's literal shape. This
// is deliberately not type inference: anything beyond a direct literal (or a
// unary sign on one) reports false and the declaration is emitted untyped.
func inferType(expr Expression) (TargetType, bool) {
	switch e := expr.(type) {
	case *IntegerLiteral, *FloatLiteral, *RangeExpr:
		return TargetNumber, true
	case *StringLiteral:
		return TargetString, true
	case *BoolLiteral:
		return TargetBoolean, true
	case *UnaryExpr:
		if e.Operator == tokenMinus {
			return inferType(e.Right)
		}
		if e.Operator == tokenBang {
			return TargetBoolean, true
		}
		return TargetNone, false
	default:
		return TargetNone, false
	}
}
