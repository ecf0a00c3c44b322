package engine

import (
	"testing"

	"parallax/internal/editor"
	"parallax/pkg/card"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptSplicesAndMovesCursor(t *testing.T) {
	doc := editor.NewDocument("Hello world")
	var slot Slot
	slot.Set("beautiful ", doc.Len())

	pos, ok := slot.Accept(doc, card.Position{Line: 0, Col: 6})
	require.True(t, ok)
	assert.Equal(t, "Hello beautiful world", doc.String())
	assert.Equal(t, card.Position{Line: 0, Col: 16}, pos)
	assert.False(t, slot.Active())
}

func TestAcceptMultiLine(t *testing.T) {
	doc := editor.NewDocument("alpha omega")
	var slot Slot
	slot.Set("one\ntwo", doc.Len())

	pos, ok := slot.Accept(doc, card.Position{Line: 0, Col: 6})
	require.True(t, ok)
	assert.Equal(t, "alpha one\ntwoomega", doc.String())
	assert.Equal(t, card.Position{Line: 1, Col: 3}, pos)
}

func TestAcceptOnShrunkDocumentIsSilentNoop(t *testing.T) {
	doc := editor.NewDocument("only line")
	var slot Slot
	slot.Set("extra", doc.Len())

	// The cursor's line no longer exists.
	pos, ok := slot.Accept(doc, card.Position{Line: 5, Col: 0})
	assert.False(t, ok)
	assert.Equal(t, "only line", doc.String())
	assert.Equal(t, card.Position{Line: 5, Col: 0}, pos)
	assert.False(t, slot.Active(), "failed accept still clears the slot")
}

func TestAcceptEmptySlot(t *testing.T) {
	doc := editor.NewDocument("text")
	var slot Slot

	pos, ok := slot.Accept(doc, card.Position{Line: 0, Col: 0})
	assert.False(t, ok)
	assert.Equal(t, card.Position{Line: 0, Col: 0}, pos)
	assert.Equal(t, "text", doc.String())
}

func TestRejectIsPure(t *testing.T) {
	doc := editor.NewDocument("Hello world")
	var slot Slot
	slot.Set("beautiful ", doc.Len())

	slot.Reject()
	assert.False(t, slot.Active())
	assert.Equal(t, "Hello world", doc.String())
}

func TestInvalidateClearsSlot(t *testing.T) {
	var slot Slot
	slot.Set("stale", 7)
	slot.Invalidate()
	assert.False(t, slot.Active())
	assert.Empty(t, slot.Text())
}

func TestSetDiscardsPreviousSuggestion(t *testing.T) {
	var slot Slot
	slot.Set("first", 1)
	slot.Set("second", 2)
	assert.Equal(t, "second", slot.Text())
	assert.Equal(t, 2, slot.AnchorLen())
}
