package symbols

// Conversion classifies how a value of one type becomes another.
type Conversion int

const (
	ConversionNone Conversion = iota
	ConversionIdentity
	ConversionImplicit
	ConversionExplicit
)

func (c Conversion) Exists() bool     { return c != ConversionNone }
func (c Conversion) IsIdentity() bool { return c == ConversionIdentity }
func (c Conversion) IsImplicit() bool { return c == ConversionIdentity || c == ConversionImplicit }
func (c Conversion) IsExplicit() bool { return c == ConversionExplicit }

func (c Conversion) String() string {
	switch c {
	case ConversionIdentity:
		return "Identity"
	case ConversionImplicit:
		return "Implicit"
	case ConversionExplicit:
		return "Explicit"
	default:
		return "None"
	}
}

func ClassifyConversion(from, to *TypeSymbol) Conversion {
	if from == to {
		return ConversionIdentity
	}
	switch {
	case from.IsInteger() && to.IsInteger():
		if from.Signed() == to.Signed() && from.Bits() <= to.Bits() {
			return ConversionImplicit
		}
		if to.Signed() && from.Bits() < to.Bits() {
			return ConversionImplicit
		}
		return ConversionExplicit
	case from.IsInteger() && to.IsFloat():
		return ConversionImplicit
	case from.IsFloat() && to.IsInteger():
		return ConversionExplicit
	case from.IsFloat() && to.IsFloat():
		if from.Bits() <= to.Bits() {
			return ConversionImplicit
		}
		return ConversionExplicit
	}

	switch {
	case from.rep == RepError || to.rep == RepError:
		return ConversionNone
	case to == Any && from != Void:
		return ConversionImplicit
	case from == Any && to != Void:
		return ConversionExplicit
	case to == String && (from == Boolean || from.IsNumeric()):
		return ConversionExplicit
	case from == String && (to == Boolean || to.IsNumeric()):
		return ConversionExplicit
	}
	return ConversionNone
}
