package synapse

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func queryFixture() QueryMap {
	return NewQueryMap(url.Values{
		"page":   []string{"2"},
		"limit":  []string{"50"},
		"tags":   []string{"go", "web"},
		"active": []string{"true"},
		"broken": []string{"abc"},
		"empty":  []string{""},
	})
}

func TestQueryMap_Get(t *testing.T) {
	q := queryFixture()

	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "go", q.Get("tags"))
	assert.Equal(t, "", q.Get("missing"))
}

func TestQueryMap_GetDefault(t *testing.T) {
	q := queryFixture()

	assert.Equal(t, "2", q.GetDefault("page", "1"))
	assert.Equal(t, "1", q.GetDefault("missing", "1"))
	assert.Equal(t, "fallback", q.GetDefault("empty", "fallback"))
}

func TestQueryMap_GetInt(t *testing.T) {
	q := queryFixture()

	assert.Equal(t, 2, q.GetInt("page"))
	assert.Equal(t, 0, q.GetInt("broken"))
	assert.Equal(t, 0, q.GetInt("missing"))
}

func TestQueryMap_GetIntDefault(t *testing.T) {
	q := queryFixture()

	assert.Equal(t, 50, q.GetIntDefault("limit", 10))
	assert.Equal(t, 10, q.GetIntDefault("broken", 10))
	assert.Equal(t, 10, q.GetIntDefault("missing", 10))
}

func TestQueryMap_GetBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "true", value: "true", expected: true},
		{name: "mixed case", value: "TRUE", expected: true},
		{name: "one", value: "1", expected: true},
		{name: "yes", value: "yes", expected: true},
		{name: "on", value: "on", expected: true},
		{name: "false", value: "false", expected: false},
		{name: "zero", value: "0", expected: false},
		{name: "garbage", value: "banana", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueryMap(url.Values{"flag": []string{tt.value}})
			assert.Equal(t, tt.expected, q.GetBool("flag"))
		})
	}
}

func TestQueryMap_GetAll(t *testing.T) {
	q := queryFixture()

	assert.Equal(t, []string{"go", "web"}, q.GetAll("tags"))
	assert.Nil(t, q.GetAll("missing"))
}

func TestQueryMap_Has(t *testing.T) {
	q := queryFixture()

	assert.True(t, q.Has("page"))
	assert.True(t, q.Has("empty"))
	assert.False(t, q.Has("missing"))
}

func TestQueryMap_Keys(t *testing.T) {
	q := NewQueryMap(url.Values{"a": []string{"1"}, "b": []string{"2"}})

	assert.ElementsMatch(t, []string{"a", "b"}, q.Keys())
}

func TestQueryMap_ToMap(t *testing.T) {
	q := queryFixture()

	m := q.ToMap()
	assert.Equal(t, []string{"go", "web"}, m["tags"])
}
