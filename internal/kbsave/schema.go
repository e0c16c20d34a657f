package kbsave

import (
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	shopsSchemaOnce sync.Once
	shopsSchemaDoc  *jsonschema.Schema
)

// shopsSchema describes the body of GET /v1/saves/:slot/shops.
func shopsSchema() *jsonschema.Schema {
	shopsSchemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			DoNotReference: true,
		}

		schema := reflector.Reflect(&shopsResponse{})
		schema.Title = "King's Bounty Shops"
		schema.Description = "Shop inventories decoded from one save slot, ordered by their position in the save."

		shopsSchemaDoc = schema
	})
	return shopsSchemaDoc
}
