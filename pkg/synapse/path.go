package synapse

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// SynapsePathPartType represents the type of path part
type SynapsePathPartType int

const (
	StaticPart SynapsePathPartType = iota
	ParameterPart
	WildcardPart
)

// SynapsePathPart represents a single part of a Synapse path
type SynapsePathPart struct {
	Type      SynapsePathPartType
	Value     string // For static parts: the literal text, for parameters: the parameter name
	ParamType string // For parameters: the type (e.g., "int", "string"), empty for untyped
}

// SynapsePath represents a route path in Synapse format and provides parsed
// parts. Parameters are declared as {name} or {name:type}, wildcards as {*}.
type SynapsePath string

// pathLexer tokenizes route patterns. Braces, colons and stars are
// structural; everything else is static text.
var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Text", Pattern: `[^{}:*]+`},
})

type pathGrammar struct {
	Segments []pathSegment `parser:"@@*"`
}

type pathSegment struct {
	Param  *pathParam `parser:"LBrace @@ RBrace"`
	Static string     `parser:"| @( Text | Colon | Star )"`
}

type pathParam struct {
	Wildcard string `parser:"@Star"`
	Name     string `parser:"| @Text"`
	Type     string `parser:"( Colon @Text )?"`
}

var pathParser = participle.MustBuild[pathGrammar](
	participle.Lexer(pathLexer),
)

// Raw returns the original Synapse path format
func (p SynapsePath) Raw() string {
	return string(p)
}

// Validate reports whether the path pattern is well formed
func (p SynapsePath) Validate() error {
	if string(p) == "" {
		return nil
	}
	_, err := pathParser.ParseString("", string(p))
	return err
}

// Parts parses the Synapse path and returns the individual parts.
// Malformed patterns degrade to a single static part.
func (p SynapsePath) Parts() []SynapsePathPart {
	path := string(p)
	if path == "" {
		return nil
	}

	ast, err := pathParser.ParseString("", path)
	if err != nil {
		return []SynapsePathPart{{Type: StaticPart, Value: path}}
	}

	var parts []SynapsePathPart
	for _, seg := range ast.Segments {
		switch {
		case seg.Param != nil && seg.Param.Wildcard != "":
			parts = append(parts, SynapsePathPart{Type: WildcardPart, Value: "*"})
		case seg.Param != nil:
			parts = append(parts, SynapsePathPart{
				Type:      ParameterPart,
				Value:     seg.Param.Name,
				ParamType: seg.Param.Type,
			})
		default:
			// Runs of static tokens collapse into one part
			if n := len(parts); n > 0 && parts[n-1].Type == StaticPart {
				parts[n-1].Value += seg.Static
			} else {
				parts = append(parts, SynapsePathPart{Type: StaticPart, Value: seg.Static})
			}
		}
	}

	return parts
}

// ParamNames returns the declared parameter names in declaration order
func (p SynapsePath) ParamNames() []string {
	var names []string
	for _, part := range p.Parts() {
		if part.Type == ParameterPart {
			names = append(names, part.Value)
		}
	}
	return names
}

// ParamTypes returns a map of parameter names to their declared types.
// Untyped parameters map to "string".
func (p SynapsePath) ParamTypes() map[string]string {
	types := make(map[string]string)
	for _, part := range p.Parts() {
		if part.Type == ParameterPart {
			if part.ParamType != "" {
				types[part.Value] = part.ParamType
			} else {
				types[part.Value] = "string"
			}
		}
	}
	return types
}

// WithPrefix returns the path mounted under the given prefix, normalizing
// the joining slash
func (p SynapsePath) WithPrefix(prefix string) SynapsePath {
	if prefix == "" {
		return p
	}
	base := strings.TrimSuffix(prefix, "/")
	rest := string(p)
	if rest == "" {
		return SynapsePath(base)
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return SynapsePath(base + rest)
}

// NewSynapsePath creates a new SynapsePath from a string
func NewSynapsePath(path string) SynapsePath {
	return SynapsePath(path)
}
