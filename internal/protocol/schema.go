package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBaseURL = "mem://cookoutcreek/schemas/"

// Schema names (file names under schemas/).
const (
	SchemaContextMenu = "engine_oncontextmenu.schema.json"
	SchemaPickup      = "engine_onpickup.schema.json"
	SchemaPosition    = "engine_position.schema.json"
	SchemaTravel      = "engine_travel.schema.json"
	SchemaConsume     = "engine_consume.schema.json"
	SchemaHello       = "hello.schema.json"
	SchemaIntent      = "intent.schema.json"
)

var schemaNames = []string{
	SchemaContextMenu,
	SchemaPickup,
	SchemaPosition,
	SchemaTravel,
	SchemaConsume,
	SchemaHello,
	SchemaIntent,
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		for _, name := range schemaNames {
			raw, err := schemaFS.ReadFile("schemas/" + name)
			if err != nil {
				schemasErr = err
				return
			}
			if err := c.AddResource(schemaBaseURL+name, bytes.NewReader(raw)); err != nil {
				schemasErr = fmt.Errorf("%s: %w", name, err)
				return
			}
		}
		out := make(map[string]*jsonschema.Schema, len(schemaNames))
		for _, name := range schemaNames {
			s, err := c.Compile(schemaBaseURL + name)
			if err != nil {
				schemasErr = fmt.Errorf("compile %s: %w", name, err)
				return
			}
			out[name] = s
		}
		schemas = out
	})
	return schemas, schemasErr
}

// Validate checks raw JSON against one of the embedded schemas.
func Validate(name string, raw []byte) error {
	all, err := compileSchemas()
	if err != nil {
		return newError(ErrInternal, "schemas", err)
	}
	s := all[name]
	if s == nil {
		return newError(ErrInternal, "unknown schema "+name, nil)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return newError(ErrProtoBadRequest, "decode json", err)
	}
	if err := s.Validate(v); err != nil {
		return newError(ErrSchema, name, err)
	}
	return nil
}
