package options

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendGLFW     = "glfw"
	BackendHeadless = "headless"
)

// Environment variables read by Load.
const (
	EnvWidth      = "FIRSTGL_WIDTH"
	EnvHeight     = "FIRSTGL_HEIGHT"
	EnvTitle      = "FIRSTGL_TITLE"
	EnvFullscreen = "FIRSTGL_FULLSCREEN"
	EnvBackend    = "FIRSTGL_BACKEND"
	EnvClearColor = "FIRSTGL_CLEAR_COLOR"
	EnvMaxFrames  = "FIRSTGL_MAX_FRAMES"
	EnvRecord     = "FIRSTGL_RECORD"
	EnvRecordFPS  = "FIRSTGL_RECORD_FPS"
	EnvFFmpeg     = "FIRSTGL_FFMPEG"
)

type WindowOptions struct {
	Width      int
	Height     int
	Title      string
	Fullscreen bool
	Backend    string     // "glfw" or "headless"
	ClearColor [4]float32 // RGBA used to clear each frame
	MaxFrames  int        // headless only; 0 means no limit
	RecordFile string     // when set, frames are encoded to this file
	RecordFPS  int
	FFmpegPath string // optional path to the ffmpeg executable
}

// Default returns the options used when nothing is configured.
func Default() *WindowOptions {
	return &WindowOptions{
		Width:      1024,
		Height:     768,
		Title:      "First OpenGL Program",
		Backend:    BackendGLFW,
		ClearColor: [4]float32{0, 0, 0.25, 1},
		RecordFPS:  60,
	}
}

// Load reads the given .env files, if they exist, and then applies the
// FIRSTGL_* environment variables on top of the defaults. Variables already
// set in the environment win over the files.
func Load(envFiles ...string) (*WindowOptions, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds options from a variable lookup function such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*WindowOptions, error) {
	o := Default()
	var err error

	if v, ok := lookup(EnvWidth); ok {
		if o.Width, err = parsePositive(EnvWidth, v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup(EnvHeight); ok {
		if o.Height, err = parsePositive(EnvHeight, v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup(EnvTitle); ok {
		o.Title = v
	}
	if v, ok := lookup(EnvFullscreen); ok {
		if o.Fullscreen, err = strconv.ParseBool(strings.TrimSpace(v)); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvFullscreen, v, err)
		}
	}
	if v, ok := lookup(EnvBackend); ok {
		switch b := strings.ToLower(strings.TrimSpace(v)); b {
		case BackendGLFW, BackendHeadless:
			o.Backend = b
		default:
			return nil, fmt.Errorf("invalid %s %q: want %q or %q", EnvBackend, v, BackendGLFW, BackendHeadless)
		}
	}
	if v, ok := lookup(EnvClearColor); ok {
		if o.ClearColor, err = parseColor(v); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvClearColor, v, err)
		}
	}
	if v, ok := lookup(EnvMaxFrames); ok {
		if o.MaxFrames, err = strconv.Atoi(strings.TrimSpace(v)); err != nil || o.MaxFrames < 0 {
			return nil, fmt.Errorf("invalid %s %q: must be a non-negative integer", EnvMaxFrames, v)
		}
	}
	if v, ok := lookup(EnvRecord); ok {
		o.RecordFile = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvRecordFPS); ok {
		if o.RecordFPS, err = parsePositive(EnvRecordFPS, v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup(EnvFFmpeg); ok {
		o.FFmpegPath = strings.TrimSpace(v)
	}

	return o, nil
}

func parsePositive(name, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, v)
	}
	return n, nil
}

// parseColor parses "r,g,b,a" with components in [0, 1]. Alpha may be omitted.
func parseColor(v string) ([4]float32, error) {
	c := [4]float32{0, 0, 0, 1}
	parts := strings.Split(v, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return c, fmt.Errorf("want 3 or 4 comma separated components, got %d", len(parts))
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return c, err
		}
		if f < 0 || f > 1 {
			return c, fmt.Errorf("component %d out of range [0,1]: %v", i, f)
		}
		c[i] = float32(f)
	}
	return c, nil
}
