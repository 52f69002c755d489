package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createCollectionTool returns the tool definition for create_collection
func createCollectionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_collection",
		Description: "Create a named vector collection with a fixed dimensionality and encoding",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Collection name (letters, digits, underscores; must not start with a digit)",
				},
				"dimensions": map[string]interface{}{
					"type":        "integer",
					"description": "Number of vector elements per entry",
					"minimum":     1,
				},
				"encoding": map[string]interface{}{
					"type":        "string",
					"description": "Element encoding: float32 (4 bytes/element), int8 (1 byte/element), or bit (1 bit/element, packed)",
					"enum":        []string{"float32", "int8", "bit"},
					"default":     "float32",
				},
			},
			Required: []string{"name", "dimensions"},
		},
	}
}

// addVectorsTool returns the tool definition for add_vectors
func addVectorsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_vectors",
		Description: "Insert keyed vectors into a collection; values are encoded per the collection's declared encoding",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Target collection name",
				},
				"vectors": map[string]interface{}{
					"type":        "array",
					"description": "Vectors to insert",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"key": map[string]interface{}{
								"type":        "string",
								"description": "Caller-assigned identifier, unique within the collection",
							},
							"values": map[string]interface{}{
								"type":        "array",
								"description": "Vector elements; length must match the collection's dimensionality",
								"items": map[string]interface{}{
									"type": "number",
								},
							},
						},
						"required": []string{"key", "values"},
					},
				},
			},
			Required: []string{"collection", "vectors"},
		},
	}
}

// searchVectorsTool returns the tool definition for search_vectors
func searchVectorsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_vectors",
		Description: "Find the nearest vectors to a query vector (L2 for float32/int8 collections, Hamming for bit collections)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection to search",
				},
				"values": map[string]interface{}{
					"type":        "array",
					"description": "Query vector elements; length must match the collection's dimensionality",
					"items": map[string]interface{}{
						"type": "number",
					},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"collection", "values"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report store statistics, build mode, and vector extension availability",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
