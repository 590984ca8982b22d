package materialize

// OpaqueFallback returns a hard-coded, schema-valid subtree for well-known
// external types the SchemaModel cannot resolve (§4.H). Keyed on the
// referenced type's local name since the opaque namespace itself is
// recorded on the Model, not on every unresolved type reference.
func OpaqueFallback(typeLocal string) (*Node, bool) {
	switch typeLocal {
	case "SignatureType":
		return signatureFallback(), true
	default:
		return nil, false
	}
}

// signatureFallback builds a minimal valid XML Digital Signature subtree:
// SignedInfo (CanonicalizationMethod, SignatureMethod, one Reference with
// Transforms/DigestMethod/DigestValue) plus SignatureValue, with algorithm
// URIs from the W3C recommendation and placeholder base64 values.
func signatureFallback() *Node {
	canon := newNode("CanonicalizationMethod")
	canon.addAttr("Algorithm", "http://www.w3.org/TR/2001/REC-xml-c14n-20010315")

	sigMethod := newNode("SignatureMethod")
	sigMethod.addAttr("Algorithm", "http://www.w3.org/2000/09/xmldsig#rsa-sha1")

	transform := newNode("Transform")
	transform.addAttr("Algorithm", "http://www.w3.org/TR/2001/REC-xml-c14n-20010315")
	transforms := newNode("Transforms")
	transforms.addChild(transform)

	digestMethod := newNode("DigestMethod")
	digestMethod.addAttr("Algorithm", "http://www.w3.org/2000/09/xmldsig#sha1")

	digestValue := newNode("DigestValue")
	digestValue.Text = "k3YCLdSjJpZ+X1wMunfWbsmUrMk="

	reference := newNode("Reference")
	reference.addAttr("URI", "")
	reference.addChild(transforms)
	reference.addChild(digestMethod)
	reference.addChild(digestValue)

	signedInfo := newNode("SignedInfo")
	signedInfo.addChild(canon)
	signedInfo.addChild(sigMethod)
	signedInfo.addChild(reference)

	signatureValue := newNode("SignatureValue")
	signatureValue.Text = "U2FtcGxlU2lnbmF0dXJlVmFsdWU="

	signature := newNode("Signature")
	signature.addChild(signedInfo)
	signature.addChild(signatureValue)
	return signature
}
