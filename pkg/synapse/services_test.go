package synapse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	name string
}

func TestServiceRegistry_RegisterAndResolve(t *testing.T) {
	services := NewServiceRegistry()
	store := &fakeUserStore{name: "primary"}

	services.Register("UserStore", store)

	resolved, err := services.Resolve("UserStore")
	require.NoError(t, err)
	assert.Same(t, store, resolved)
}

func TestServiceRegistry_SingletonShadowsTransient(t *testing.T) {
	services := NewServiceRegistry()

	transient := &fakeUserStore{name: "transient"}
	singleton := &fakeUserStore{name: "singleton"}

	services.Register("UserStore", transient)
	services.RegisterSingleton("UserStore", singleton)

	resolved, err := services.Resolve("UserStore")
	require.NoError(t, err)
	assert.Same(t, singleton, resolved)

	// Registration order does not matter, the singleton tier always wins
	services2 := NewServiceRegistry()
	services2.RegisterSingleton("UserStore", singleton)
	services2.Register("UserStore", transient)

	resolved2, err := services2.Resolve("UserStore")
	require.NoError(t, err)
	assert.Same(t, singleton, resolved2)
}

func TestServiceRegistry_NotFound(t *testing.T) {
	services := NewServiceRegistry()

	_, err := services.Resolve("Missing")
	require.Error(t, err)

	var notFound *ServiceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Missing", notFound.Token)
	assert.Contains(t, err.Error(), "Missing")
}

func TestServiceRegistry_RegisterWithMode(t *testing.T) {
	services := NewServiceRegistry()

	services.RegisterWithMode("A", "transient-value", ServiceModeTransient)
	services.RegisterWithMode("A", "singleton-value", ServiceModeSingleton)

	resolved, err := services.Resolve("A")
	require.NoError(t, err)
	assert.Equal(t, "singleton-value", resolved)

	// Unknown modes land in the transient tier
	services.RegisterWithMode("B", "value", ServiceMode("Scoped"))
	resolved, err = services.Resolve("B")
	require.NoError(t, err)
	assert.Equal(t, "value", resolved)
}

func TestServiceRegistry_Has(t *testing.T) {
	services := NewServiceRegistry()

	assert.False(t, services.Has("UserStore"))

	services.Register("UserStore", &fakeUserStore{})
	assert.True(t, services.Has("UserStore"))

	services.RegisterSingleton("Config", "cfg")
	assert.True(t, services.Has("Config"))
}

func TestServiceRegistry_Tokens(t *testing.T) {
	services := NewServiceRegistry()

	services.Register("A", 1)
	services.RegisterSingleton("B", 2)
	// Same token in both tiers counts once
	services.Register("B", 3)

	tokens := services.Tokens()
	assert.ElementsMatch(t, []string{"A", "B"}, tokens)
}

func TestResolveAs(t *testing.T) {
	services := NewServiceRegistry()
	store := &fakeUserStore{name: "primary"}
	services.Register("UserStore", store)

	typed, err := ResolveAs[*fakeUserStore](services, "UserStore")
	require.NoError(t, err)
	assert.Same(t, store, typed)

	// Wrong type
	_, err = ResolveAs[string](services, "UserStore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UserStore")

	// Missing token keeps the not-found error
	_, err = ResolveAs[*fakeUserStore](services, "Missing")
	var notFound *ServiceNotFoundError
	require.True(t, errors.As(err, &notFound))
}
