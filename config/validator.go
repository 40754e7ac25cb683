package config

import (
	"github.com/grovetools/hookcfg/schema"
)

// SchemaValidator checks decoded documents against the embedded schema
// before they are mapped onto Config.
type SchemaValidator struct {
	validator *schema.Validator
}

func NewSchemaValidator() (*SchemaValidator, error) {
	v, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{validator: v}, nil
}

// Validate accepts the generic form produced by a YAML, JSON or TOML decoder.
func (v *SchemaValidator) Validate(doc interface{}) error {
	return v.validator.Validate(doc)
}
