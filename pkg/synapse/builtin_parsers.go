package synapse

import (
	"strconv"

	"github.com/google/uuid"
)

// ParseFunc converts a raw string value into a typed value
type ParseFunc func(value string) (any, error)

// BuiltinParsers maps type names to their parse functions. These back the
// typed path segments ({id:int}) and the scalar schemas.
var BuiltinParsers = map[string]ParseFunc{
	"int": func(value string) (any, error) {
		return ParseInt(value)
	},
	"string": func(value string) (any, error) {
		return ParseString(value)
	},
	"float64": func(value string) (any, error) {
		return ParseFloat64(value)
	},
	"float32": func(value string) (any, error) {
		return ParseFloat32(value)
	},
	"uuid.UUID": func(value string) (any, error) {
		return ParseUUID(value)
	},
}

// ParserAliases maps convenient aliases to their full type names
var ParserAliases = map[string]string{
	"UUID":   "uuid.UUID",
	"uuid":   "uuid.UUID",
	"float":  "float64", // Default float to float64
	"double": "float64", // Common alias for float64
}

// ParseInt parses a string parameter to int
func ParseInt(value string) (int, error) {
	return strconv.Atoi(value)
}

// ParseString returns the string parameter as-is (no conversion needed)
func ParseString(value string) (string, error) {
	return value, nil
}

// ParseFloat64 parses a string parameter to float64
func ParseFloat64(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

// ParseFloat32 parses a string parameter to float32
func ParseFloat32(value string) (float32, error) {
	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, err
	}
	return float32(val), nil
}

// ParseUUID parses a string parameter to uuid.UUID
func ParseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

// GetBuiltinParser returns a built-in parser by type name, checking aliases first
func GetBuiltinParser(typeName string) (ParseFunc, bool) {
	// Check if it's an alias first
	if actualType, isAlias := ParserAliases[typeName]; isAlias {
		typeName = actualType
	}

	parser, exists := BuiltinParsers[typeName]
	return parser, exists
}

// IsBuiltinType checks if a type is a built-in type, including aliases
func IsBuiltinType(typeName string) bool {
	// Check aliases first
	if actualType, isAlias := ParserAliases[typeName]; isAlias {
		typeName = actualType
	}

	_, exists := BuiltinParsers[typeName]
	return exists
}

// ResolveTypeAlias resolves a type alias to its actual type name
func ResolveTypeAlias(typeName string) string {
	if actualType, isAlias := ParserAliases[typeName]; isAlias {
		return actualType
	}
	return typeName
}

// GetAllBuiltinTypes returns all built-in type names including aliases
func GetAllBuiltinTypes() []string {
	types := make([]string, 0, len(BuiltinParsers)+len(ParserAliases))

	// Add actual types
	for typeName := range BuiltinParsers {
		types = append(types, typeName)
	}

	// Add aliases
	for alias := range ParserAliases {
		types = append(types, alias)
	}

	return types
}
