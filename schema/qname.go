package schema

import "strings"

// QName is a qualified name: a namespace URI plus a local name. Namespace
// is empty for names with no namespace.
type QName struct {
	Namespace string
	Local     string
}

func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return q.Namespace + "#" + q.Local
}

// IsZero reports whether q is the zero QName.
func (q QName) IsZero() bool {
	return q.Namespace == "" && q.Local == ""
}

// resolveQName resolves a possibly-prefixed name (e.g. "xs:string",
// "tns:Address", or "Address") against a prefix->namespace map and the
// schema's default (unprefixed) namespace, resolving it by hand the way
// getNamespacePrefix/ResolveQName do in moolekkari-validatexml-go, instead
// of relying on encoding/xml's attribute-value namespacing (which
// encoding/xml does not perform for plain attribute text).
func resolveQName(raw string, nsMap map[string]string, defaultNS string) QName {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return QName{}
	}
	if idx := strings.IndexByte(raw, ':'); idx >= 0 {
		prefix, local := raw[:idx], raw[idx+1:]
		if ns, ok := nsMap[prefix]; ok {
			return QName{Namespace: ns, Local: local}
		}
		// Unknown prefix: keep the local part, namespace unresolved.
		return QName{Namespace: "", Local: local}
	}
	return QName{Namespace: defaultNS, Local: raw}
}

// XSDNamespace is the fixed XML Schema namespace URI. The loader detects
// which prefix a document bound to it (conventionally "xs" or "xsd") so
// that diagnostics can echo the author's own prefix, but name resolution
// always compares against this URI, never the prefix text.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"
