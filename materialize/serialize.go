package materialize

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Serialize renders root as a pretty-printed XML document with a UTF-8
// declaration. targetNamespace and prefix, if non-empty, are declared as
// an xmlns attribute on the root element (§4.H rule 7); prefix empty means
// the default (unprefixed) namespace.
func Serialize(root *Node, targetNamespace, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	nsAttr := ""
	if targetNamespace != "" {
		if prefix == "" {
			nsAttr = fmt.Sprintf(` xmlns="%s"`, escapeAttr(targetNamespace))
		} else {
			nsAttr = fmt.Sprintf(` xmlns:%s="%s"`, prefix, escapeAttr(targetNamespace))
		}
	}

	writeNode(&buf, root, 0, nsAttr)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n *Node, indent int, extraRootAttr string) {
	pad := bytes.Repeat([]byte("  "), indent)
	buf.Write(pad)
	buf.WriteByte('<')
	buf.WriteString(n.Local)
	buf.WriteString(extraRootAttr)
	for _, a := range n.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, escapeAttr(a.Value))
	}

	if n.Text == "" && len(n.Children) == 0 {
		buf.WriteString("/>")
		return
	}

	buf.WriteByte('>')
	if len(n.Children) == 0 {
		xml.EscapeText(buf, []byte(n.Text))
		buf.WriteString("</")
		buf.WriteString(n.Local)
		buf.WriteByte('>')
		return
	}

	for _, c := range n.Children {
		buf.WriteByte('\n')
		writeNode(buf, c, indent+1, "")
	}
	buf.WriteByte('\n')
	buf.Write(pad)
	buf.WriteString("</")
	buf.WriteString(n.Local)
	buf.WriteByte('>')
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
