package curriculum

// curriculumSchema is the JSON schema every curriculum document must
// satisfy before it is unmarshalled.
var curriculumSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"subject": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "Subject line, e.g. \"Waves and Modern Physics\"",
		},
		"audience": map[string]any{
			"type":        "string",
			"description": "Who the curriculum is written for, e.g. \"grade 12\"",
		},
		"topics": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"keywords": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"resource": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"label": map[string]any{"type": "string", "minLength": 1},
							"url":   map[string]any{"type": "string", "minLength": 1},
						},
						"required":             []any{"label", "url"},
						"additionalProperties": false,
					},
				},
				"required":             []any{"name"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"subject", "topics"},
	"additionalProperties": false,
}
