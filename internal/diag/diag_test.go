package diag

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/address"
)

func TestErrorMessages(t *testing.T) {
	path := address.Root("randomVariables").Attr("tree")

	testCases := []struct {
		name string
		err  Diagnostic
		want string
	}{
		{"unresolved", &UnresolvedReferenceError{Path: path, Missing: "rate"}, `randomVariables.tree: reference to undeclared name "rate"`},
		{"cycle", &CycleError{Path: path, Cycle: []string{"A", "B", "C"}}, "randomVariables.tree: dependency cycle: A -> B -> C -> A"},
		{"mismatch", &TypeMismatchError{Path: path, Expected: "TREE", Actual: "REAL"}, "randomVariables.tree: type mismatch: expected TREE, got REAL"},
		{"data with position", &DataFormatError{Path: path, Taxon: "human", Position: 3, Reason: "invalid character 'Z'"}, `randomVariables.tree: taxon "human" position 3: invalid character 'Z'`},
		{"data without position", &DataFormatError{Path: path, Position: -1, Reason: "empty alignment"}, "randomVariables.tree: empty alignment"},
		{"no path", &ParseError{Reason: "document is empty"}, "document is empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestList(t *testing.T) {
	var l List
	require.NoError(t, l.Err())

	l.Add(nil, &ParseError{Reason: "a"})
	l.Add(List{&CycleError{Cycle: []string{"x"}}, &ParseError{Reason: "b"}})
	l.Add(fmt.Errorf("plain"))
	require.Len(t, l, 4)

	err := l.Err()
	require.Error(t, err)

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"x"}, cycle.Cycle)

	groups := l.ByKind()
	assert.Len(t, groups[KindParse], 2)
	assert.Len(t, groups[KindCycle], 1)
	assert.Len(t, groups[Kind("")], 1)
}

func TestEntriesAndDiagnostics(t *testing.T) {
	l := List{&ParameterConstraintError{
		Path:  address.Root("randomVariables").Attr("freqs").Attr("distribution").Attr("parameters").Attr("alpha").Index(1),
		Rule:  "positive",
		Value: -1.0,
	}}

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, KindParameterConstraint, entries[0].Kind)
	assert.Equal(t, "randomVariables.freqs.distribution.parameters.alpha[1]", entries[0].Path)

	diags := l.Diagnostics(nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "ParameterConstraintError", diags[0].Summary)
	assert.Nil(t, diags[0].Subject)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, l, nil, nil))
	assert.Contains(t, buf.String(), "violates positive")
}
