package app

import (
	"errors"
	"testing"

	"github.com/richinsley/firstgl/glfwcontext"
	"github.com/richinsley/firstgl/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindowManager struct {
	initErr     error
	frames      int // ProcessInput returns false after this many frames
	initialized bool
	width       int
	height      int
	title       string
	fullscreen  bool
	polls       int
	swaps       int
	destroys    int
}

func (f *fakeWindowManager) Initialize(width, height int, title string, fullscreen bool) error {
	f.width, f.height, f.title, f.fullscreen = width, height, title, fullscreen
	if f.initErr != nil {
		return f.initErr
	}
	f.initialized = true
	return nil
}

func (f *fakeWindowManager) SwapBuffers() { f.swaps++ }

func (f *fakeWindowManager) ProcessInput(continueGame bool) bool {
	f.polls++
	if f.swaps >= f.frames {
		return false
	}
	return continueGame
}

func (f *fakeWindowManager) Destroy() { f.destroys++ }

func (f *fakeWindowManager) FramebufferSize() (int, int) { return f.width, f.height }

type fakeRecorder struct {
	captures  int
	failAfter int
	closed    int
}

func (r *fakeRecorder) Capture() error {
	r.captures++
	if r.failAfter > 0 && r.captures >= r.failAfter {
		return errors.New("pipe closed")
	}
	return nil
}

func (r *fakeRecorder) Close() error {
	r.closed++
	return nil
}

func newTestApp(wm *fakeWindowManager, o *options.WindowOptions) (*GLApplication, *[]int) {
	a := New(wm, o)
	var rendered []int
	a.render = func(width, height int, clearColor [4]float32) {
		rendered = append(rendered, width)
	}
	return a, &rendered
}

func TestGLMainRunsUntilQuit(t *testing.T) {
	wm := &fakeWindowManager{frames: 5}
	o := options.Default()
	a, rendered := newTestApp(wm, o)

	assert.Equal(t, 0, a.GLMain())
	assert.Equal(t, o.Width, wm.width)
	assert.Equal(t, o.Height, wm.height)
	assert.Equal(t, o.Title, wm.title)
	assert.False(t, wm.fullscreen)
	assert.Equal(t, 5, wm.swaps)
	assert.Len(t, *rendered, 5)
	assert.Equal(t, 6, wm.polls)
	assert.Equal(t, 1, wm.destroys)
}

func TestGLMainInitializeFailure(t *testing.T) {
	wm := &fakeWindowManager{initErr: errors.New("no display"), frames: 5}
	a, rendered := newTestApp(wm, options.Default())

	assert.Equal(t, -1, a.GLMain())
	assert.Zero(t, wm.polls)
	assert.Zero(t, wm.swaps)
	assert.Empty(t, *rendered)
	assert.Equal(t, 1, wm.destroys)
}

func TestGLMainRecordsEveryFrame(t *testing.T) {
	wm := &fakeWindowManager{frames: 3}
	o := options.Default()
	o.RecordFile = "out.mp4"
	a, _ := newTestApp(wm, o)

	rec := &fakeRecorder{}
	var gotW, gotH int
	a.startRecorder = func(o *options.WindowOptions, width, height int) (frameRecorder, error) {
		gotW, gotH = width, height
		return rec, nil
	}

	assert.Equal(t, 0, a.GLMain())
	assert.Equal(t, 3, rec.captures)
	assert.Equal(t, 1, rec.closed)
	assert.Equal(t, o.Width, gotW)
	assert.Equal(t, o.Height, gotH)
}

func TestGLMainKeepsRunningWhenRecordingFails(t *testing.T) {
	wm := &fakeWindowManager{frames: 4}
	o := options.Default()
	o.RecordFile = "out.mp4"
	a, rendered := newTestApp(wm, o)

	rec := &fakeRecorder{failAfter: 2}
	a.startRecorder = func(*options.WindowOptions, int, int) (frameRecorder, error) {
		return rec, nil
	}

	assert.Equal(t, 0, a.GLMain())
	assert.Equal(t, 2, rec.captures)
	assert.Equal(t, 1, rec.closed)
	assert.Len(t, *rendered, 4)
	assert.Equal(t, 4, wm.swaps)
}

func TestGLMainRecorderStartFailure(t *testing.T) {
	wm := &fakeWindowManager{frames: 2}
	o := options.Default()
	o.RecordFile = "out.mp4"
	a, _ := newTestApp(wm, o)
	a.startRecorder = func(*options.WindowOptions, int, int) (frameRecorder, error) {
		return nil, errors.New("ffmpeg not found")
	}

	assert.Equal(t, 0, a.GLMain())
	assert.Equal(t, 2, wm.swaps)
}

func TestNewWindowManager(t *testing.T) {
	o := options.Default()
	wm, err := NewWindowManager(o)
	require.NoError(t, err)
	assert.IsType(t, &glfwcontext.Context{}, wm)

	o.Backend = "sdl"
	_, err = NewWindowManager(o)
	assert.Error(t, err)
}
