package httpapi

// Tool describes one MCP tool with its JSON Schema input contract.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func binarySchema(aDescription, bDescription string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{
				"type":        "number",
				"description": aDescription,
			},
			"b": map[string]any{
				"type":        "number",
				"description": bDescription,
			},
		},
		"required": []string{"a", "b"},
	}
}

// tools is the MCP tool catalogue returned by tools/list and GET /tools.
var tools = []Tool{
	{
		Name:        "plus",
		Description: "Add two numbers together",
		InputSchema: binarySchema("The first number", "The second number"),
	},
	{
		Name:        "sub",
		Description: "Subtract second number from first number",
		InputSchema: binarySchema("The first number", "The second number"),
	},
	{
		Name:        "mul",
		Description: "Multiply two numbers",
		InputSchema: binarySchema("The first number", "The second number"),
	},
	{
		Name:        "div",
		Description: "Divide first number by second number",
		InputSchema: binarySchema("The dividend", "The divisor"),
	},
	{
		Name:        "history",
		Description: "Get calculation history",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":        "number",
					"description": "Number of recent calculations to retrieve (default: 10)",
				},
			},
		},
	},
}

func toolNames() []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}
