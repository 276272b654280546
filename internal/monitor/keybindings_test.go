package monitor

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestMode_String(t *testing.T) {
	assert.Equal(t, "table", ModeTable.String())
	assert.Equal(t, "filter", ModeFilter.String())
	assert.Equal(t, "columns", ModeColumns.String())
	assert.Equal(t, "table", Mode(99).String())
}

func TestKeyMap_ShortHelp(t *testing.T) {
	bindings := DefaultKeyMap().ShortHelp()
	assert.NotEmpty(t, bindings)
	for _, b := range bindings {
		assert.NotEmpty(t, b.Help().Key)
	}
}

func TestKeyMap_FullHelpCoversEveryBinding(t *testing.T) {
	km := DefaultKeyMap()
	var n int
	for _, group := range km.FullHelp() {
		n += len(group)
	}
	assert.Equal(t, 24, n, "every table binding appears in the help overlay")
}

func TestKeyMap_NoOverlappingKeys(t *testing.T) {
	km := DefaultKeyMap()
	seen := map[string]string{}
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				assert.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestColumnKeyMap(t *testing.T) {
	km := DefaultColumnKeyMap()
	assert.Len(t, km.FullHelp(), 1)
	assert.Equal(t, km.ShortHelp(), km.FullHelp()[0])
	assert.True(t, key.Matches(keyMsg("esc"), km.Done))
	assert.True(t, key.Matches(keyMsg("C"), km.Done))
	assert.True(t, key.Matches(keyMsg("="), km.Widen))
}
