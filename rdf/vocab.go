package rdf

// Namespace IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// Well-known IRIs used by the term model.
const (
	RDFType       = RDFNamespace + "type"
	RDFValue      = RDFNamespace + "value"
	RDFLangString = RDFNamespace + "langString"
	RDFJSON       = RDFNamespace + "JSON"

	RDFSLabel   = RDFSNamespace + "label"
	RDFSComment = RDFSNamespace + "comment"

	XSDString   = XSDNamespace + "string"
	XSDBoolean  = XSDNamespace + "boolean"
	XSDInteger  = XSDNamespace + "integer"
	XSDDecimal  = XSDNamespace + "decimal"
	XSDDouble   = XSDNamespace + "double"
	XSDDateTime = XSDNamespace + "dateTime"
)

// DefaultPrefixes maps the usual prefix labels to their namespaces. Callers
// may copy and extend it for encoders that abbreviate IRIs.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"xsd":  XSDNamespace,
	}
}
