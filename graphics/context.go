package graphics

// Fixed context hints shared by every backend.
const (
	Samples             = 4
	ContextVersionMajor = 4
	ContextVersionMinor = 4
)

// WindowManager abstracts the window and rendering context so the application
// loop does not depend on a particular windowing library. Implementations own
// a single native window handle, valid between a successful Initialize and
// Destroy.
type WindowManager interface {
	// Initialize creates the window and its OpenGL context and loads the GL
	// function pointers. A failure has already been reported on stderr.
	Initialize(width, height int, title string, fullscreen bool) error
	// SwapBuffers presents the back buffer once a frame is complete.
	SwapBuffers()
	// ProcessInput returns false when the user asked to quit, otherwise it
	// returns continueGame. Must be called from the thread that created the window.
	ProcessInput(continueGame bool) bool
	// Destroy releases the window and terminates the windowing library.
	Destroy()
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (int, int)
}
