package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/induction/internal/engine"
)

func TestScenarioBook(t *testing.T) {
	b := NewScenarioBook()
	assert.Equal(t, 0, b.Len())

	b.Add(&engine.Scenario{ID: "s1", Name: "first"})
	b.Add(&engine.Scenario{ID: "s2"})
	b.Add(&engine.Scenario{ID: "s1", Name: "replaced"})

	assert.Equal(t, 2, b.Len())
	list := b.List()
	assert.Equal(t, "s1", list[0].ID)
	assert.Equal(t, "replaced", list[0].Name)
	assert.Equal(t, "s2", list[1].ID)

	sc, ok := b.Get("s2")
	assert.True(t, ok)
	assert.Equal(t, "s2", sc.ID)

	assert.Equal(t, 2, b.Clear())
	_, ok = b.Get("s1")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
}
