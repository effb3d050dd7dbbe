package recorder

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Capture reads the current framebuffer back and sends it to the encoder.
// It must run on the thread that owns the GL context, before the buffers are
// swapped.
func (r *Recorder) Capture() error {
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(r.buf))
	return r.WriteFrame(r.buf)
}
