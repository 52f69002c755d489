package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/veclab/sqlitevec/internal/storage"
	"github.com/veclab/sqlitevec/pkg/sqlitevec"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeCollectionNotFound = -32001 // Named collection does not exist
	ErrorCodeCollectionExists   = -32002 // Collection name already in use
	ErrorCodeSizeMismatch       = -32003 // Vector length doesn't match the collection
)

// handleCreateCollection handles the create_collection tool invocation
func (s *Server) handleCreateCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	dims := getIntDefault(args, "dimensions", 0)
	if dims < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "dimensions must be a positive integer", map[string]interface{}{
			"param": "dimensions",
			"value": dims,
		})
	}

	encName := getStringDefault(args, "encoding", "float32")
	enc, err := sqlitevec.ParseEncoding(encName)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid encoding", map[string]interface{}{
			"param":   "encoding",
			"value":   encName,
			"allowed": []string{"float32", "int8", "bit"},
		})
	}

	coll, err := s.storage.CreateCollection(ctx, name, dims, enc)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, newMCPError(ErrorCodeCollectionExists, "collection already exists", map[string]interface{}{
			"name": name,
		})
	}
	if errors.Is(err, storage.ErrInvalidName) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid collection name", map[string]interface{}{
			"param": "name",
			"value": name,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to create collection", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"created":           true,
		"name":              coll.Name,
		"dimensions":        coll.Dimensions,
		"encoding":          coll.Encoding.String(),
		"bytes_per_vector":  coll.ByteSize(),
		"vec0_column_type":  coll.Encoding.ColumnType(coll.Dimensions),
		"indexed_natively":  storage.VectorExtensionAvailable,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAddVectors handles the add_vectors tool invocation
func (s *Server) handleAddVectors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	collection, ok := args["collection"].(string)
	if !ok || collection == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "collection parameter is required", map[string]interface{}{
			"param":  "collection",
			"reason": "missing or empty",
		})
	}

	rawVectors, ok := args["vectors"].([]interface{})
	if !ok || len(rawVectors) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "vectors parameter is required and cannot be empty", map[string]interface{}{
			"param":  "vectors",
			"reason": "missing or empty",
		})
	}

	coll, err := s.storage.GetCollection(ctx, collection)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeCollectionNotFound, "collection not found", map[string]interface{}{
			"name": collection,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load collection", map[string]interface{}{
			"error": err.Error(),
		})
	}

	keys := make([]string, len(rawVectors))
	values := make([][]float64, len(rawVectors))
	for i, raw := range rawVectors {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "each vector must be an object with key and values", map[string]interface{}{
				"index": i,
			})
		}
		key, ok := entry["key"].(string)
		if !ok || key == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, "vector key is required", map[string]interface{}{
				"index": i,
			})
		}
		vals, err := toFloat64Slice(entry["values"])
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "vector values must be an array of numbers", map[string]interface{}{
				"index": i,
				"key":   key,
			})
		}
		if len(vals) != coll.Dimensions {
			return nil, newMCPError(ErrorCodeSizeMismatch, "vector length doesn't match collection dimensionality", map[string]interface{}{
				"key":      key,
				"got":      len(vals),
				"expected": coll.Dimensions,
			})
		}
		keys[i] = key
		values[i] = vals
	}

	inserted, err := s.insertEncoded(ctx, coll, keys, values)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to insert vectors", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"collection": coll.Name,
		"inserted":   inserted,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// insertEncoded writes vectors using the batch path for float32
// collections and per-vector encoded inserts otherwise.
func (s *Server) insertEncoded(ctx context.Context, coll *storage.Collection, keys []string, values [][]float64) (int, error) {
	if coll.Encoding == sqlitevec.EncodingFloat32 {
		items := make([]storage.BatchItem, len(keys))
		for i := range keys {
			vec := make([]float32, len(values[i]))
			for j, v := range values[i] {
				vec[j] = float32(v)
			}
			items[i] = storage.BatchItem{Key: keys[i], Values: vec}
		}
		return s.storage.InsertFloat32Batch(ctx, coll.Name, items)
	}

	inserted := 0
	for i := range keys {
		blob, err := encodeValues(coll.Encoding, values[i])
		if err != nil {
			return inserted, err
		}
		if _, err := s.storage.InsertVector(ctx, coll.Name, keys[i], blob); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// handleSearchVectors handles the search_vectors tool invocation
func (s *Server) handleSearchVectors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	collection, ok := args["collection"].(string)
	if !ok || collection == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "collection parameter is required", map[string]interface{}{
			"param":  "collection",
			"reason": "missing or empty",
		})
	}

	vals, err := toFloat64Slice(args["values"])
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "values must be an array of numbers", map[string]interface{}{
			"param": "values",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	coll, err := s.storage.GetCollection(ctx, collection)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeCollectionNotFound, "collection not found", map[string]interface{}{
			"name": collection,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load collection", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if len(vals) != coll.Dimensions {
		return nil, newMCPError(ErrorCodeSizeMismatch, "query length doesn't match collection dimensionality", map[string]interface{}{
			"got":      len(vals),
			"expected": coll.Dimensions,
		})
	}

	query, err := encodeValues(coll.Encoding, vals)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "failed to encode query vector", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results, err := s.storage.SearchNearest(ctx, collection, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	matches := make([]map[string]interface{}, len(results))
	for i, r := range results {
		matches[i] = map[string]interface{}{
			"key":      r.Key,
			"distance": r.Distance,
		}
	}

	response := map[string]interface{}{
		"collection": coll.Name,
		"count":      len(matches),
		"results":    matches,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.storage.GetStats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"statistics": map[string]interface{}{
			"collections":      stats.Collections,
			"vectors":          stats.Vectors,
			"database_size_mb": fmt.Sprintf("%.2f", stats.DatabaseSizeMB),
		},
		"build": map[string]interface{}{
			"mode":                storage.BuildMode,
			"driver":              storage.DriverName,
			"extension_loaded":    stats.ExtensionLoaded,
			"extension_version":   sqlitevec.Version(),
			"extension_available": sqlitevec.Available,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// encodeValues converts JSON numbers into the collection's binary
// representation: float32 little-endian, one signed byte per element, or
// packed bits (nonzero means set).
func encodeValues(enc sqlitevec.Encoding, vals []float64) ([]byte, error) {
	switch enc {
	case sqlitevec.EncodingFloat32:
		vec := make([]float32, len(vals))
		for i, v := range vals {
			vec[i] = float32(v)
		}
		return sqlitevec.SerializeFloat32(vec), nil
	case sqlitevec.EncodingInt8:
		vec := make([]int8, len(vals))
		for i, v := range vals {
			if v < -128 || v > 127 || v != float64(int8(v)) {
				return nil, fmt.Errorf("element %d (%v) is not a valid int8 value", i, v)
			}
			vec[i] = int8(v)
		}
		return sqlitevec.SerializeInt8(vec), nil
	case sqlitevec.EncodingBit:
		bits := make([]bool, len(vals))
		for i, v := range vals {
			bits[i] = v != 0
		}
		return sqlitevec.SerializeBit(bits), nil
	default:
		return nil, fmt.Errorf("%w: %s", sqlitevec.ErrUnknownEncoding, enc)
	}
}

// toFloat64Slice converts a JSON array parameter into a float64 slice
func toFloat64Slice(raw interface{}) ([]float64, error) {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("not an array")
	}
	vals := make([]float64, len(arr))
	for i, v := range arr {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number", i)
		}
		vals[i] = f
	}
	return vals, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
