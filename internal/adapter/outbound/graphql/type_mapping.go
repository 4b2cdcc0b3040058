package graphql

// UnknownType is the GraphQL type emitted for parameter types with no mapping.
const UnknownType = "Unknown"

// scalarTypes maps RAML scalar type names to GraphQL scalar names.
var scalarTypes = map[string]string{
	"string":  "String",
	"integer": "Int",
}

// MapScalarType returns the GraphQL scalar for a RAML type name, or
// UnknownType when the name is not in the table.
func MapScalarType(ramlType string) string {
	if t, ok := scalarTypes[ramlType]; ok {
		return t
	}
	return UnknownType
}
