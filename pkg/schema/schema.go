// Package schema exposes the JSON-schema contracts handed to external
// configuration and reporting consumers.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/tradewind-lab/tradewind/internal/strategy"
)

// ToJSONSchema converts a struct to a self-contained JSON schema document.
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// StrategyParams describes one registered strategy and its tunable knobs.
type StrategyParams struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Params      map[string]float64 `json:"params"`
}

// StrategyParamsDocument lists every registered strategy with its default
// parameter set, in registration order.
func StrategyParamsDocument(registry *strategy.Registry) []StrategyParams {
	defs := registry.Definitions()

	doc := make([]StrategyParams, 0, len(defs))
	for _, def := range defs {
		doc = append(doc, StrategyParams{
			ID:          def.Strategy.ID(),
			Name:        def.Strategy.Name(),
			Description: def.Strategy.Description(),
			Params:      def.Params.Clone(),
		})
	}

	return doc
}

// StrategyParamsSchema returns the JSON schema of the strategy parameter
// document.
func StrategyParamsSchema() (string, error) {
	return ToJSONSchema([]StrategyParams{})
}
