package materialize

import "github.com/miwamasa/xsdcoverage/schema"

// LeafValue maps an XSD simple type to a deterministic, type-valid dummy
// string, per §4.H's leaf-value table. If typ names a SimpleType with an
// enumeration, its first value always wins over the builtin fallback.
func LeafValue(model *schema.Model, typ schema.QName, localName string) string {
	if st := model.LookupSimpleType(typ); st != nil {
		if len(st.Enumeration) > 0 {
			return st.Enumeration[0]
		}
		return LeafValue(model, st.Base, localName)
	}
	return builtinLeafValue(typ.Local, localName)
}

func builtinLeafValue(localType, elementLocalName string) string {
	switch localType {
	case "int", "integer", "long", "short", "byte", "unsignedInt", "unsignedLong", "positiveInteger", "nonNegativeInteger":
		return "1"
	case "decimal", "float", "double":
		return "1.0"
	case "boolean":
		return "true"
	case "date":
		return "2024-01-01"
	case "dateTime":
		return "2024-01-01T00:00:00Z"
	case "time":
		return "12:00:00"
	case "base64Binary":
		return "U2FtcGxlRGF0YQ=="
	case "hexBinary":
		return "48656C6C6F"
	default:
		return elementLocalName + "_value"
	}
}
