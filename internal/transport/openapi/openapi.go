package openapi

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/frahmantamala/pos-identity/internal"
	"github.com/frahmantamala/pos-identity/internal/transport"
)

//go:embed openapi.yml
var document []byte

// Document returns the raw embedded API description.
func Document() []byte {
	return document
}

// Load parses and validates the embedded API description.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// ServeDocument writes the embedded description as YAML.
func ServeDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(document)
}

// Validator checks JSON request bodies against the operation schemas of the
// API description. Paths are relative to the API base path.
type Validator struct {
	*transport.BaseHandler
	doc *openapi3.T
}

func NewValidator(doc *openapi3.T, logger *slog.Logger) *Validator {
	return &Validator{
		BaseHandler: transport.NewBaseHandler(logger),
		doc:         doc,
	}
}

// Body returns a middleware validating the request body of the operation at
// path and method. Operations without a JSON body schema pass through.
func (v *Validator) Body(path, method string) func(http.Handler) http.Handler {
	schema, required := v.bodySchema(path, method)

	return func(next http.Handler) http.Handler {
		if schema == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				v.WriteServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequest))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))

			if err := validateBody(schema, raw, required); err != nil {
				v.Logger.Warn("request body rejected", "path", r.URL.Path, "error", err)
				v.WriteServiceError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (v *Validator) bodySchema(path, method string) (*openapi3.Schema, bool) {
	if v.doc == nil || v.doc.Paths == nil {
		return nil, false
	}
	item := v.doc.Paths.Value(path)
	if item == nil {
		return nil, false
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, false
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, false
	}
	return media.Schema.Value, op.RequestBody.Value.Required
}

func validateBody(schema *openapi3.Schema, raw []byte, required bool) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		if required {
			return internal.NewValidationError("request body is required", internal.ErrCodeInvalidRequest)
		}
		return nil
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequest)
	}

	if err := schema.VisitJSON(value); err != nil {
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			return internal.NewValidationFieldError(fieldName(schemaErr), schemaErr.Reason, internal.ErrCodeValidationFailed)
		}
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	return nil
}

func fieldName(err *openapi3.SchemaError) string {
	pointer := err.JSONPointer()
	if len(pointer) == 0 {
		return "body"
	}
	return strings.Join(pointer, ".")
}
