package app

import (
	"fmt"
	"log"

	"github.com/richinsley/firstgl/glfwcontext"
	"github.com/richinsley/firstgl/graphics"
	"github.com/richinsley/firstgl/headless"
	"github.com/richinsley/firstgl/options"
	"github.com/richinsley/firstgl/recorder"
)

// frameRecorder is what the loop needs from a recorder.Recorder.
type frameRecorder interface {
	Capture() error
	Close() error
}

// GLApplication owns the window manager and runs the frame loop.
type GLApplication struct {
	windowManager graphics.WindowManager
	options       *options.WindowOptions

	// render draws one frame into the current context.
	render        func(width, height int, clearColor [4]float32)
	startRecorder func(o *options.WindowOptions, width, height int) (frameRecorder, error)
}

// NewWindowManager returns the backend selected by o.Backend.
func NewWindowManager(o *options.WindowOptions) (graphics.WindowManager, error) {
	switch o.Backend {
	case options.BackendGLFW, "":
		return glfwcontext.New(), nil
	case options.BackendHeadless:
		return headless.New(o.MaxFrames)
	default:
		return nil, fmt.Errorf("unknown window backend %q", o.Backend)
	}
}

func New(wm graphics.WindowManager, o *options.WindowOptions) *GLApplication {
	return &GLApplication{
		windowManager: wm,
		options:       o,
		render:        clearFrame,
		startRecorder: startRecorder,
	}
}

func startRecorder(o *options.WindowOptions, width, height int) (frameRecorder, error) {
	r, err := recorder.Start(o.RecordFile, width, height, o.RecordFPS, o.FFmpegPath)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GLMain creates the window, runs the game loop until the user quits and
// tears everything down. It returns 0 on success and -1 if the window could
// not be created.
func (a *GLApplication) GLMain() int {
	o := a.options
	wm := a.windowManager

	err := wm.Initialize(o.Width, o.Height, o.Title, o.Fullscreen)
	defer wm.Destroy()
	if err != nil {
		log.Printf("Failed to initialize window: %v", err)
		return -1
	}

	rec := a.beginRecording()

	frames := 0
	for wm.ProcessInput(true) {
		width, height := wm.FramebufferSize()
		a.render(width, height, o.ClearColor)

		if rec != nil {
			if err := rec.Capture(); err != nil {
				log.Printf("Recording stopped: %v", err)
				a.endRecording(rec)
				rec = nil
			}
		}

		wm.SwapBuffers()
		frames++
	}

	if rec != nil {
		a.endRecording(rec)
	}
	log.Printf("Rendered %d frames", frames)
	return 0
}

// beginRecording starts the recorder when one is configured. Failing to
// start only disables recording.
func (a *GLApplication) beginRecording() frameRecorder {
	if a.options.RecordFile == "" {
		return nil
	}
	width, height := a.windowManager.FramebufferSize()
	rec, err := a.startRecorder(a.options, width, height)
	if err != nil {
		log.Printf("Failed to start recording: %v", err)
		return nil
	}
	return rec
}

func (a *GLApplication) endRecording(rec frameRecorder) {
	if err := rec.Close(); err != nil {
		log.Printf("Failed to finish recording: %v", err)
		return
	}
	log.Printf("Recording written to %s", a.options.RecordFile)
}
