package glfwcontext

import (
	"errors"
	"fmt"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	graphics "github.com/richinsley/firstgl/graphics"
)

// nativeWindow is the part of *glfw.Window the context drives.
type nativeWindow interface {
	GetKey(key glfw.Key) glfw.Action
	ShouldClose() bool
	SwapBuffers()
	Destroy()
	MakeContextCurrent()
	SetInputMode(mode glfw.InputMode, value int)
	SetKeyCallback(cbfun glfw.KeyCallback) glfw.KeyCallback
	GetFramebufferSize() (int, int)
}

// library holds the package-level GLFW and GL entry points so they can be
// replaced in tests.
type library struct {
	init         func() error
	terminate    func()
	windowHint   func(target glfw.Hint, hint int)
	createWindow func(width, height int, title string, fullscreen bool) (nativeWindow, error)
	swapInterval func(interval int)
	pollEvents   func()
	loadGL       func() error
}

var glInitOnce sync.Once
var glInitErr error

// loadGL resolves the OpenGL function pointers for the current context.
// The bindings are process-wide, so this only happens once.
func loadGL() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	return glInitErr
}

func createWindow(width, height int, title string, fullscreen bool) (nativeWindow, error) {
	var monitor *glfw.Monitor
	if fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	win, err := glfw.CreateWindow(width, height, title, monitor, nil)
	if err != nil {
		return nil, err
	}
	return win, nil
}

func defaultLibrary() library {
	return library{
		init:         glfw.Init,
		terminate:    glfw.Terminate,
		windowHint:   glfw.WindowHint,
		createWindow: createWindow,
		swapInterval: glfw.SwapInterval,
		pollEvents:   glfw.PollEvents,
		loadGL:       loadGL,
	}
}

// Context is the GLFW implementation of graphics.WindowManager.
type Context struct {
	lib         library
	window      nativeWindow
	initialized bool
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

var _ graphics.WindowManager = (*Context)(nil)

// New returns a Context backed by GLFW. No window exists until Initialize.
func New() *Context {
	return newWithLibrary(defaultLibrary())
}

func newWithLibrary(lib library) *Context {
	return &Context{
		lib:          lib,
		keyCallbacks: make(map[glfw.Key]func()),
	}
}

// Initialize starts GLFW, creates the window with a 4x multisampled OpenGL
// 4.4 core context, makes it current and loads the GL functions.
// Must be called from the main thread.
func (c *Context) Initialize(width, height int, title string, fullscreen bool) error {
	if err := c.lib.init(); err != nil {
		log.Println("Failed to initialize GLFW")
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	c.initialized = true

	c.lib.windowHint(glfw.Samples, graphics.Samples)
	c.lib.windowHint(glfw.ContextVersionMajor, graphics.ContextVersionMajor)
	c.lib.windowHint(glfw.ContextVersionMinor, graphics.ContextVersionMinor)
	c.lib.windowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	c.lib.windowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := c.lib.createWindow(width, height, title, fullscreen)
	if err != nil || win == nil {
		log.Printf("Failed to create a GLFW window, you might need to update your drivers or lower the OpenGL version to 3")
		c.Destroy()
		if err == nil {
			err = errors.New("no window returned")
		}
		return fmt.Errorf("failed to create glfw window: %w", err)
	}
	c.window = win

	c.window.MakeContextCurrent()
	c.lib.swapInterval(1)

	// A key pressed and released between two polls still reads as pressed.
	c.window.SetInputMode(glfw.StickyKeysMode, glfw.True)
	c.window.SetKeyCallback(c.glfwKeyCallback)

	if err := c.lib.loadGL(); err != nil {
		log.Println("Failed to initialize OpenGL function loader")
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Printf("GLFW window created: %dx%d %q (fullscreen=%v)", width, height, title, fullscreen)
	return nil
}

// SwapBuffers presents the back buffer.
func (c *Context) SwapBuffers() {
	if c.window == nil {
		return
	}
	c.window.SwapBuffers()
}

// ProcessInput returns false if Escape is down or the window was asked to
// close. Otherwise it polls pending events and returns continueGame.
func (c *Context) ProcessInput(continueGame bool) bool {
	if c.window == nil {
		return false
	}
	if c.window.GetKey(glfw.KeyEscape) == glfw.Press || c.window.ShouldClose() {
		return false
	}

	// Only valid on the thread that created the window.
	c.lib.pollEvents()

	return continueGame
}

// Destroy closes the window and terminates GLFW. Calling it more than once,
// or after a failed Initialize, is fine.
func (c *Context) Destroy() {
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	if c.initialized {
		c.lib.terminate()
		c.initialized = false
		log.Printf("GLFW Terminated")
	}
}

// FramebufferSize returns the size of the window's framebuffer in pixels.
func (c *Context) FramebufferSize() (int, int) {
	if c.window == nil {
		return 0, 0
	}
	return c.window.GetFramebufferSize()
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// glfwKeyCallback is the function that will be called by GLFW on a key event.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if callback, ok := c.keyCallbacks[key]; ok {
		callback()
	}
}
