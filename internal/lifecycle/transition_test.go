package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	table := Table[string]{
		"draft":     {"active": true, "void": true},
		"active":    {"void": true},
		"void":      {},
		"published": nil,
	}

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"declared move", "draft", "active", true},
		{"second declared move", "draft", "void", true},
		{"undeclared move", "active", "draft", false},
		{"self move not implicit", "draft", "draft", false},
		{"from terminal", "void", "active", false},
		{"unknown status", "ghost", "active", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Can(tt.from, tt.to))
		})
	}
}

func TestCheckReturnsTransitionError(t *testing.T) {
	table := Table[string]{"a": {"b": true}}

	require.NoError(t, table.Check("a", "b"))

	err := table.Check("b", "a")
	require.Error(t, err)
	var te *TransitionError[string]
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "b", te.From)
	assert.Equal(t, "a", te.To)
	assert.Contains(t, err.Error(), "invalid transition")
}

func TestTerminal(t *testing.T) {
	table := Table[string]{
		"open":   {"closed": true},
		"closed": {},
	}
	assert.False(t, table.Terminal("open"))
	assert.True(t, table.Terminal("closed"))
	// unknown statuses have no outgoing edges either
	assert.True(t, table.Terminal("ghost"))
}
