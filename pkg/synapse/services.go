package synapse

import (
	"fmt"

	"github.com/toyz/synapse/internal/utils"
)

// ServiceMode selects the registration tier for a service
type ServiceMode string

const (
	// ServiceModeSingleton registers into the singleton tier, which wins on lookup
	ServiceModeSingleton ServiceMode = "Singleton"

	// ServiceModeTransient registers into the transient tier
	ServiceModeTransient ServiceMode = "Transient"
)

// ServiceNotFoundError reports a lookup for a token no tier holds
type ServiceNotFoundError struct {
	Token string
}

// Error implements the error interface
func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service not found: %s", e.Token)
}

// ServiceRegistry is a token-keyed store of constructed values with a
// singleton tier that shadows the transient tier on lookup. Values are
// registered fully constructed; resolution is a flat O(1) lookup that
// never recurses into construction.
type ServiceRegistry struct {
	transient *utils.Registry[string, any]
	singleton *utils.Registry[string, any]
}

// NewServiceRegistry creates an empty service registry
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		transient: utils.NewRegistry[string, any](),
		singleton: utils.NewRegistry[string, any](),
	}
}

// Register inserts or overwrites a value in the transient tier
func (s *ServiceRegistry) Register(token string, value any) {
	s.transient.Register(token, value)
}

// RegisterSingleton inserts or overwrites a value in the singleton tier
func (s *ServiceRegistry) RegisterSingleton(token string, value any) {
	s.singleton.Register(token, value)
}

// RegisterWithMode registers under the tier the mode selects; unknown
// modes fall back to transient
func (s *ServiceRegistry) RegisterWithMode(token string, value any, mode ServiceMode) {
	if mode == ServiceModeSingleton {
		s.RegisterSingleton(token, value)
		return
	}
	s.Register(token, value)
}

// Resolve returns the singleton-tier value when present, else the
// transient-tier value, else a *ServiceNotFoundError naming the token
func (s *ServiceRegistry) Resolve(token string) (any, error) {
	if value, ok := s.singleton.Get(token); ok {
		return value, nil
	}
	if value, ok := s.transient.Get(token); ok {
		return value, nil
	}
	return nil, &ServiceNotFoundError{Token: token}
}

// Has reports whether any tier holds the token
func (s *ServiceRegistry) Has(token string) bool {
	return s.singleton.Has(token) || s.transient.Has(token)
}

// Tokens returns every registered token across both tiers
func (s *ServiceRegistry) Tokens() []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, t := range s.singleton.List() {
		if !seen[t] {
			seen[t] = true
			tokens = append(tokens, t)
		}
	}
	for _, t := range s.transient.List() {
		if !seen[t] {
			seen[t] = true
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// ResolveAs resolves the token and asserts the value to T
func ResolveAs[T any](s *ServiceRegistry, token string) (T, error) {
	var zero T
	value, err := s.Resolve(token)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("service %s holds %T, not %T", token, value, zero)
	}
	return typed, nil
}
