package adminhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/i2y/raml2graphql/internal/domain"
	"github.com/i2y/raml2graphql/internal/usecase"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// Handlers struct holds dependencies for the HTTP handlers.
type Handlers struct {
	convertUseCase *usecase.ConvertSchemaUseCase
	listUseCase    *usecase.ListSchemasUseCase
	logger         *slog.Logger
}

// NewHandlers creates a new Handlers struct.
func NewHandlers(
	convertUC *usecase.ConvertSchemaUseCase,
	listUC *usecase.ListSchemasUseCase,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		convertUseCase: convertUC,
		listUseCase:    listUC,
		logger:         logger.With("component", "adminhttp_handler"),
	}
}

// RegisterRoutes sets up the admin and read-only schema endpoints.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/convert", h.handleConvert)
	mux.HandleFunc("GET /schemas", h.handleListSchemas)
	mux.HandleFunc("GET /schemas/text", h.handleSchemaText)
	mux.HandleFunc("GET /schemas/structure", h.handleSchemaStructure)
	mux.HandleFunc("GET /health", h.handleHealth)
}

// ConvertRequest defines the expected JSON body for the /admin/convert endpoint.
type ConvertRequest struct {
	Source  string            `json:"source" validate:"required"`
	Type    domain.SchemaType `json:"type,omitempty" validate:"omitempty,oneof=raml openapi github"`
	Headers map[string]string `json:"headers,omitempty"`
}

// SchemaQuery holds the query parameters of the /schemas/text and
// /schemas/structure endpoints.
type SchemaQuery struct {
	Source string `schema:"source" validate:"required"`
}

// SchemaSummary is one entry of the /schemas listing.
type SchemaSummary struct {
	Source      string            `json:"source"`
	Type        domain.SchemaType `json:"type"`
	FieldCount  int               `json:"field_count"`
	ConvertedAt time.Time         `json:"converted_at"`
}

// handleConvert implements POST /admin/convert
func (h *Handlers) handleConvert(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode convert request body", slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.logger.Warn("Invalid convert request", slog.Any("error", err))
		http.Error(w, invalidRequest(err), http.StatusBadRequest)
		return
	}

	h.logger.Info("Received convert request", slog.String("source", req.Source))
	converted, err := h.convertUseCase.Execute(r.Context(), domain.SchemaSource{
		URL:     req.Source,
		Type:    req.Type,
		Headers: req.Headers,
	})
	if err != nil {
		h.logger.Error("Failed to convert schema", slog.String("source", req.Source), slog.Any("error", err))
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrUnsupportedSchemaType) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Failed to convert schema: %v", err), status)
		return
	}

	writeText(w, converted.Text)
	h.logger.Info("Convert request completed", slog.String("source", req.Source))
}

// handleListSchemas implements GET /schemas
func (h *Handlers) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	schemas, err := h.listUseCase.Execute(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list schemas: %v", err), http.StatusInternalServerError)
		return
	}

	summaries := make([]SchemaSummary, 0, len(schemas))
	for _, s := range schemas {
		summaries = append(summaries, SchemaSummary{
			Source:      s.Source,
			Type:        s.Type,
			FieldCount:  len(s.Structure.Resources),
			ConvertedAt: s.ConvertedAt,
		})
	}
	h.writeJSON(w, summaries)
}

// handleSchemaText implements GET /schemas/text?source=...
func (h *Handlers) handleSchemaText(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.findSchema(w, r)
	if !ok {
		return
	}
	writeText(w, schema.Text)
}

// handleSchemaStructure implements GET /schemas/structure?source=...
func (h *Handlers) handleSchemaStructure(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.findSchema(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, schema.Structure)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// findSchema looks up the source query parameter and writes the error
// response itself when the lookup fails.
func (h *Handlers) findSchema(w http.ResponseWriter, r *http.Request) (*domain.ConvertedSchema, bool) {
	var query SchemaQuery
	if err := schemaDecoder.Decode(&query, r.URL.Query()); err != nil {
		http.Error(w, fmt.Sprintf("Invalid query: %v", err), http.StatusBadRequest)
		return nil, false
	}
	if err := validate.Struct(query); err != nil {
		http.Error(w, invalidRequest(err), http.StatusBadRequest)
		return nil, false
	}
	source := query.Source

	schema, err := h.listUseCase.Find(r.Context(), source)
	if err != nil {
		if errors.Is(err, usecase.ErrSchemaNotFound) {
			http.Error(w, fmt.Sprintf("Schema not found: %s", source), http.StatusNotFound)
			return nil, false
		}
		http.Error(w, fmt.Sprintf("Failed to find schema: %v", err), http.StatusInternalServerError)
		return nil, false
	}
	return schema, true
}

// invalidRequest formats validation failures as "field: rule" pairs.
func invalidRequest(err error) string {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Sprintf("Invalid request: %v", err)
	}
	msgs := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msgs = append(msgs, strings.ToLower(ve.Field())+": "+ve.Tag())
	}
	return "Invalid request: " + strings.Join(msgs, "; ")
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, text)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}
