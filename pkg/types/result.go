// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExecutionResult is the captured outcome of one wasm invocation.
type ExecutionResult struct {
	Stdout  string `json:"stdout" yaml:"stdout"`
	Stderr  string `json:"stderr" yaml:"stderr"`
	Success bool   `json:"success" yaml:"success"`
}

// ConversionStatus is the state of one file in a batch conversion.
type ConversionStatus string

const (
	ConversionNone      ConversionStatus = "none"
	ConversionConverted ConversionStatus = "converted"
	ConversionFailed    ConversionStatus = "failed"
)
