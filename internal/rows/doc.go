// Package rows adapts host data to the engine's NamedValues contract.
//
// Three adapters are provided. MapRow holds decoded Go values, JSONRow
// reads a fastjson object in place and StructRow reads a protobuf Struct.
// All of them resolve field names without regard to case.
//
// Load and Decode read row files in JSON, JSON Lines, YAML or CUE, plain or
// compressed with gzip or zstd.
package rows
