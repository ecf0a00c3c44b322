package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("banana")
	assert.Error(t, err)
	_, err = ParseKind("")
	assert.Error(t, err)
}

func TestTagAssignsFreshID(t *testing.T) {
	c := Card{Header: "h", Text: "t", Kind: KindQuestion}
	a, b := c.Tag(), c.Tag()
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, c.ID, "Tag returns a copy")
}

func TestStringTruncates(t *testing.T) {
	c := Card{Header: "h", Text: strings.Repeat("x", 80), Kind: KindContext}
	s := c.String()
	assert.Contains(t, s, "...")
	assert.Less(t, len(s), 80)
}

func TestWorkspaceSessionID(t *testing.T) {
	a := Workspace{ScopeRoot: "/home/me/project", PlanPath: "plan.md"}
	assert.Equal(t, a.SessionID(), a.SessionID())
	assert.Len(t, a.SessionID(), 32)

	// The separator keeps (ab, c) and (a, bc) apart.
	x := Workspace{ScopeRoot: "ab", PlanPath: "c"}
	y := Workspace{ScopeRoot: "a", PlanPath: "bc"}
	assert.NotEqual(t, x.SessionID(), y.SessionID())
}
