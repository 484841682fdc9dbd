package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema JSON do payload TILE_UPDATE. Validamos na borda da rede para que dados
// malformados nunca cheguem ao modelo de mundo.
const tileUpdateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["x", "y", "building"],
  "properties": {
    "x": {"type": "integer", "minimum": 0},
    "y": {"type": "integer", "minimum": 0},
    "building": {
      "oneOf": [
        {"type": "null"},
        {
          "type": "object",
          "required": ["kind"],
          "properties": {
            "kind": {"type": "string", "minLength": 1},
            "zone_type": {"type": "string"},
            "road_type": {"type": "string"},
            "style": {"type": "string"},
            "level": {"type": "integer", "minimum": 0, "maximum": 9},
            "rotation": {"type": "number"},
            "abandoned": {"type": "boolean"},
            "developed": {"type": "boolean"},
            "hide_terrain": {"type": "boolean"}
          }
        }
      ]
    }
  }
}`

var compiledTileUpdate = jsonschema.MustCompileString("tile_update.schema.json", tileUpdateSchema)

// ValidateTileUpdate valida o payload bruto de um TILE_UPDATE contra o schema.
func ValidateTileUpdate(payload []byte) error {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("payload TILE_UPDATE não é JSON válido: %w", err)
	}
	if err := compiledTileUpdate.Validate(v); err != nil {
		return fmt.Errorf("payload TILE_UPDATE rejeitado pelo schema: %w", err)
	}
	return nil
}
