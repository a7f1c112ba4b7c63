package main

import (
	"fmt"

	"github.com/toyz/synapse/pkg/synapse"
)

func main() {
	converter := synapse.NewRouteConverter()

	// Test wildcard conversion
	tests := []string{
		"/files/{*}",
		"/api/v1/{*}",
		"/static/{*}",
		"/users/{id:int}/files/{*}",
	}

	fmt.Println("Testing wildcard route conversion:")
	for _, test := range tests {
		path := synapse.SynapsePath(test)
		fmt.Printf("Path: %-30s -> Echo: %s\n", test, converter.ToEcho(path))
		fmt.Printf("  Gin: %-30s Fiber: %-20s Mux: %s\n",
			converter.ToGin(path), converter.ToFiber(path), converter.ToMux(path))

		// Test parameter extraction
		fmt.Printf("  Parameters: %v\n", path.ParamTypes())

		// Test validation
		if err := path.Validate(); err != nil {
			fmt.Printf("  Validation error: %v\n", err)
		} else {
			fmt.Printf("  Validation: ✓ Valid\n")
		}
		fmt.Println()
	}

	// Test malformed patterns
	fmt.Println("Testing malformed patterns:")
	invalidTests := []string{
		"/users/{id",    // Unclosed brace
		"/users/{}",     // Empty parameter
		"/users/{:int}", // Missing name
	}

	for _, test := range invalidTests {
		if err := synapse.SynapsePath(test).Validate(); err != nil {
			fmt.Printf("%-30s -> ✓ Correctly rejected: %v\n", test, err)
		} else {
			fmt.Printf("%-30s -> ✗ Should have been rejected\n", test)
		}
	}
}
