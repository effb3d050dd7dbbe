//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/firstgl/graphics"
)

func New(maxFrames int) (graphics.WindowManager, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
