package utils

import "fmt"

// ErrorWrappers provides common error wrapping patterns used throughout the codebase
// to reduce duplication and ensure consistent error formatting.

// WrapRegisterError wraps an error with a "failed to register" message
func WrapRegisterError(name string, err error) error {
	return fmt.Errorf("failed to register %s: %w", name, err)
}

// WrapCompileError wraps an error with a "failed to compile" message
func WrapCompileError(item string, err error) error {
	return fmt.Errorf("failed to compile %s: %w", item, err)
}

// WrapResolveError wraps an error with a "failed to resolve" message
func WrapResolveError(item string, err error) error {
	return fmt.Errorf("failed to resolve %s: %w", item, err)
}

// WrapConstructError wraps an error with a "failed to construct" message
func WrapConstructError(item string, err error) error {
	return fmt.Errorf("failed to construct %s: %w", item, err)
}

// WrapStartError wraps an error with a "failed to start" message
func WrapStartError(item string, err error) error {
	return fmt.Errorf("failed to start %s: %w", item, err)
}

// WrapBindError wraps an error with a "failed to bind" message
func WrapBindError(item string, err error) error {
	return fmt.Errorf("failed to bind %s: %w", item, err)
}
