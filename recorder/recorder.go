package recorder

import (
	"errors"
	"fmt"
	"io"
	"log"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Recorder streams raw RGBA frames into an encoder running on its own
// goroutine. Frames are written from the render thread; the encoder never
// touches the GL context.
type Recorder struct {
	width  int
	height int
	buf    []byte
	pipe   *io.PipeWriter
	done   chan error
	closed bool
}

// inputArgs describes the raw frames read back from OpenGL.
func inputArgs(width, height, fps int) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       fmt.Sprintf("%d", fps),
	}
}

// outputArgs encodes to h264. OpenGL rows start at the bottom, hence vflip.
func outputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
	}
}

// Start launches ffmpeg writing to outputFile. An empty ffmpegPath uses the
// ffmpeg found on PATH.
func Start(outputFile string, width, height, fps int, ffmpegPath string) (*Recorder, error) {
	if outputFile == "" {
		return nil, errors.New("no output file")
	}
	if width <= 0 || height <= 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid recording size %dx%d@%d", width, height, fps)
	}

	r := newRecorder(width, height, func(in io.Reader) error {
		cmd := ffmpeg.Input("pipe:", inputArgs(width, height, fps)).
			Output(outputFile, outputArgs()).
			OverWriteOutput().WithInput(in).ErrorToStdOut()
		if ffmpegPath != "" {
			cmd = cmd.SetFfmpegPath(ffmpegPath)
		}
		return cmd.Run()
	})
	log.Printf("Recording %dx%d at %d fps to %s", width, height, fps, outputFile)
	return r, nil
}

func newRecorder(width, height int, run func(io.Reader) error) *Recorder {
	pr, pw := io.Pipe()
	r := &Recorder{
		width:  width,
		height: height,
		buf:    make([]byte, width*height*4),
		pipe:   pw,
		done:   make(chan error, 1),
	}
	go func() {
		err := run(pr)
		// Unblock a pending WriteFrame if the encoder quit early.
		if err != nil {
			pr.CloseWithError(err)
		} else {
			pr.CloseWithError(io.ErrUnexpectedEOF)
		}
		r.done <- err
	}()
	return r
}

// Size returns the frame size the recorder was started with.
func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

// WriteFrame sends one tightly packed RGBA frame to the encoder.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.closed {
		return errors.New("recorder is closed")
	}
	if want := r.width * r.height * 4; len(pixels) != want {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), want)
	}
	if _, err := r.pipe.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame to encoder: %w", err)
	}
	return nil
}

// Close ends the stream and waits for the encoder to finish.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.pipe.Close()
	if err := <-r.done; err != nil {
		return fmt.Errorf("encoder failed: %w", err)
	}
	return nil
}
