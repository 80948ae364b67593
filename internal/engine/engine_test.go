package engine

import (
	"testing"
	"time"

	"Mower/internal/behaviour"

	"github.com/stretchr/testify/assert"
)

// Only the paths that do not need a window are covered here.

func TestSpawnBeforeOpen(t *testing.T) {
	e := New()

	err := e.Spawn(behaviour.NewGameObject("Ground"))

	assert.ErrorContains(t, err, "before Open")
}

func TestRunBeforeOpen(t *testing.T) {
	e := New()

	err := e.Run(func(time.Time) bool { return true })

	assert.Error(t, err)
}

func TestSyncWithoutNodeIsNoop(t *testing.T) {
	e := New()
	obj := behaviour.NewGameObject("Orphan")

	assert.NotPanics(t, func() { e.Sync(obj) })
	assert.NotPanics(t, func() { e.SetOverlayText(obj, "x") })
}

type fakeWindow struct {
	title         string
	width, height int
	resized       bool
}

func (w *fakeWindow) SetTitle(title string) { w.title = title }

func (w *fakeWindow) SetSize(width, height int) {
	w.width, w.height = width, height
	w.resized = true
}

func TestWindowSetupAppliesTitleAndSize(t *testing.T) {
	w := &fakeWindow{title: "G3N Application", width: 800, height: 600}

	windowSetup(w, "Mower", 1280, 720)

	assert.Equal(t, "Mower", w.title)
	assert.Equal(t, 1280, w.width)
	assert.Equal(t, 720, w.height)
}

func TestWindowSetupKeepsSizeWhenUnset(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600}

	windowSetup(w, "Mower", 0, 0)

	assert.Equal(t, "Mower", w.title)
	assert.False(t, w.resized)
	assert.Equal(t, 800, w.width)
}
