package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsKeys(t *testing.T) {
	got, err := Marshal(map[string]any{
		"train_id": "KM-001",
		"rank":     1,
		"eligible": true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"eligible":true,"rank":1,"train_id":"KM-001"}`, string(got))
}

func TestMarshal_NestedValues(t *testing.T) {
	got, err := Marshal(map[string]any{
		"trains": []any{
			map[string]any{"id": "KM-002", "score": "74.0"},
			map[string]any{"id": "KM-001", "score": "96.0"},
		},
		"tags": []string{"b", "a"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"tags":["b","a"],"trains":[{"id":"KM-002","score":"74.0"},{"id":"KM-001","score":"96.0"}]}`,
		string(got))
}

func TestMarshal_RejectsFloatsAndNull(t *testing.T) {
	_, err := Marshal(map[string]any{"score": 96.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = Marshal(map[string]any{"rank": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	got, err := Marshal("Coca-Cola <Wrap> & Co")
	require.NoError(t, err)
	assert.Equal(t, `"Coca-Cola <Wrap> & Co"`, string(got))
}

func TestMarshal_NFCNormalization(t *testing.T) {
	// e followed by a combining acute accent normalizes to the precomposed form.
	decomposed := "Cafe\u0301"
	composed := "Caf\u00e9"

	a, err := Marshal(decomposed)
	require.NoError(t, err)
	b, err := Marshal(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshal_LineSeparatorsLiteral(t *testing.T) {
	got, err := Marshal("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	// A literal backslash followed by u2028 stays escaped.
	got, err = Marshal(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FF61.
	keys := SortedKeys(map[string]any{
		"\uFF61":     1,
		"\U0001F600": 2,
		"a":          3,
	})
	assert.Equal(t, []string{"a", "\U0001F600", "\uFF61"}, keys)
}

func TestDigest_DomainSeparation(t *testing.T) {
	v := map[string]any{"id": "KM-001"}

	fleetDigest, err := Digest(DomainFleet, v)
	require.NoError(t, err)
	planDigest, err := Digest(DomainPlan, v)
	require.NoError(t, err)

	assert.Len(t, fleetDigest, 64)
	assert.NotEqual(t, fleetDigest, planDigest)

	again, err := Digest(DomainFleet, v)
	require.NoError(t, err)
	assert.Equal(t, fleetDigest, again)
}
