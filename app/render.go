package app

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// clearFrame covers the whole framebuffer with clearColor and resets depth.
func clearFrame(width, height int, clearColor [4]float32) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}
