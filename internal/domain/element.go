package domain

// ElementKind names a class of child elements in an API description tree.
type ElementKind string

const (
	KindMethods         ElementKind = "methods"
	KindResources       ElementKind = "resources"
	KindQueryParameters ElementKind = "queryParameters"
)

// Attribute is a single attribute value attached to an Element.
type Attribute interface {
	PlainValue() string
}

// Element is a node of a parsed API description: the api root, a resource,
// a method or a query parameter. Parsers expose their trees through this
// interface so that generators never depend on a concrete parser.
type Element interface {
	// Attr returns the first attribute with the given name.
	Attr(name string) (Attribute, bool)
	// Attributes returns every attribute with the given name, in source order.
	Attributes(name string) []Attribute
	// ElementsOfKind returns the ordered children of the given kind.
	ElementsOfKind(kind ElementKind) []Element
	Name() string
}

// StringAttribute is an Attribute holding a plain string.
type StringAttribute string

// PlainValue implements Attribute.
func (a StringAttribute) PlainValue() string { return string(a) }
