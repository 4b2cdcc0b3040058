package domain

import "time"

// SchemaType defines the kind of the source API description.
type SchemaType string

const (
	SchemaTypeRAML    SchemaType = "raml"
	SchemaTypeOpenAPI SchemaType = "openapi"
	SchemaTypeGitHub  SchemaType = "github" // GitHub-hosted RAML or OpenAPI documents
)

// SchemaSource identifies where an API description lives and how to read it.
type SchemaSource struct {
	URL string
	// Type forces a fetcher. Empty means infer from the URL.
	Type    SchemaType
	Headers map[string]string
}

// APIDocument is a fetched and parsed API description.
type APIDocument struct {
	// Source indicates the origin of the document (URL or file path).
	Source string
	// Type is the format the document was parsed as.
	Type SchemaType
	// RawData holds the unprocessed document content.
	RawData []byte
	// Root is the api element of the parsed resource tree.
	Root Element
}

// ConvertedSchema is the result of one conversion, as stored by a SchemaRepository.
type ConvertedSchema struct {
	Source      string       `json:"source"`
	Type        SchemaType   `json:"type"`
	Text        string       `json:"text"`
	Structure   APIStructure `json:"structure"`
	ConvertedAt time.Time    `json:"converted_at"`
}
