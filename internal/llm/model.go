package llm

import "github.com/invopop/jsonschema"

// intentPrediction is the structured output contract the model must fill.
type intentPrediction struct {
	Intent     string  `json:"intent" jsonschema_description:"One of the allowed intent labels"`
	Confidence float64 `json:"confidence" jsonschema_description:"Confidence between 0 and 1"`
}

// generateSchema reflects a Go type into a strict JSON schema for the
// response_format parameter.
func generateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
