package authoring

// DistractorSetSchema defines the JSON shape for distractor authoring.
var DistractorSetSchema = &Schema{
	Name:        "distractor-set",
	Description: "A set of plausible but wrong definitions for a vocabulary word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"distractors": map[string]any{
				"type":        "array",
				"description": "Wrong definitions a learner who does not know the word might believe",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"definition": map[string]any{
							"type":        "string",
							"description": "The wrong definition, phrased like a dictionary entry",
						},
						"kind": map[string]any{
							"type":        "string",
							"enum":        []any{"near-miss", "unrelated", "false-friend"},
							"description": "How the distractor misleads",
						},
					},
					"required":             []any{"definition", "kind"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"distractors"},
		"additionalProperties": false,
	},
}
