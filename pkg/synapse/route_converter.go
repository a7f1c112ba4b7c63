package synapse

// RouteConverter renders route patterns in the syntax each supported
// framework expects.
// Converts: /users/{id:int} -> /users/:id (Echo, Gin, Fiber)
// Converts: /users/{id:int} -> /users/{id} (Mux)
type RouteConverter struct{}

// NewRouteConverter creates a new route converter
func NewRouteConverter() *RouteConverter {
	return &RouteConverter{}
}

// ToEcho renders the path in Echo syntax. Parameters become :name and
// wildcards become *.
func (rc *RouteConverter) ToEcho(path SynapsePath) string {
	out := ""
	for _, part := range path.Parts() {
		switch part.Type {
		case StaticPart:
			out += part.Value
		case ParameterPart:
			out += ":" + part.Value
		case WildcardPart:
			out += "*"
		default:
			out += part.Value
		}
	}
	return out
}

// ToGin renders the path in Gin syntax. Gin only accepts named catch-alls,
// so wildcards register as *path.
func (rc *RouteConverter) ToGin(path SynapsePath) string {
	out := ""
	for _, part := range path.Parts() {
		if part.Value == "" {
			continue
		}
		switch part.Type {
		case StaticPart:
			out += part.Value
		case ParameterPart:
			out += ":" + part.Value
		case WildcardPart:
			out += "*path"
		default:
			out += part.Value
		}
	}
	return out
}

// ToFiber renders the path in Fiber syntax
func (rc *RouteConverter) ToFiber(path SynapsePath) string {
	out := ""
	for _, part := range path.Parts() {
		if part.Value == "" {
			continue
		}
		switch part.Type {
		case StaticPart:
			out += part.Value
		case ParameterPart:
			out += ":" + part.Value
		case WildcardPart:
			out += "*"
		default:
			out += part.Value
		}
	}
	return out
}

// ToMux renders the path as a gorilla/mux route template. Wildcards become
// a named .* variable called rest.
func (rc *RouteConverter) ToMux(path SynapsePath) string {
	out := ""
	for _, part := range path.Parts() {
		switch part.Type {
		case StaticPart:
			out += part.Value
		case ParameterPart:
			out += "{" + part.Value + "}"
		case WildcardPart:
			out += "{rest:.*}"
		default:
			out += part.Value
		}
	}
	return out
}

// Global converter instance
var DefaultRouteConverter = NewRouteConverter()

// Convenience functions
func PathToEcho(path SynapsePath) string {
	return DefaultRouteConverter.ToEcho(path)
}

func PathToGin(path SynapsePath) string {
	return DefaultRouteConverter.ToGin(path)
}

func PathToFiber(path SynapsePath) string {
	return DefaultRouteConverter.ToFiber(path)
}

func PathToMux(path SynapsePath) string {
	return DefaultRouteConverter.ToMux(path)
}
