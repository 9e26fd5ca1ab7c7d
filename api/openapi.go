// Package api carries the OpenAPI document served next to the swagger UI.
package api

import (
	"context"
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
	pkgerrors "github.com/pkg/errors"
)

//go:embed openapi.yml
var Document []byte

// Load parses the embedded document and validates it against the OpenAPI 3
// schema.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(Document)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parse openapi document")
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "validate openapi document")
	}
	return doc, nil
}
