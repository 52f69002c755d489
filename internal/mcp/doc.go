// Package mcp exposes the vector store over the Model Context Protocol.
//
// The server speaks MCP on stdio and registers four tools:
//
//   - create_collection: declare a named collection with a fixed
//     dimensionality and vector encoding
//   - add_vectors: insert keyed vectors into a collection
//   - search_vectors: nearest-neighbor query against a collection
//   - get_status: store statistics and extension/build information
//
// Vector values arrive as JSON numbers and are encoded into the
// collection's declared binary representation before they reach
// storage, so every blob the store sees already satisfies the
// byte-size contract for its (encoding, dimensionality) pair.
package mcp
