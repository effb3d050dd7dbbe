package recorder

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

func TestRecorderStreamsFrames(t *testing.T) {
	var got bytes.Buffer
	r := newRecorder(2, 1, func(in io.Reader) error {
		_, err := io.Copy(&got, in)
		return err
	})

	frame1 := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	frame2 := []byte{9, 9, 9, 9, 8, 8, 8, 8}
	require.NoError(t, r.WriteFrame(frame1))
	require.NoError(t, r.WriteFrame(frame2))
	require.NoError(t, r.Close())

	assert.Equal(t, append(frame1, frame2...), got.Bytes())
	assert.NoError(t, r.Close(), "second close is a no-op")
	assert.Error(t, r.WriteFrame(frame1))
}

func TestRecorderRejectsWrongFrameSize(t *testing.T) {
	r := newRecorder(2, 2, func(in io.Reader) error {
		_, err := io.Copy(io.Discard, in)
		return err
	})
	defer r.Close()

	err := r.WriteFrame(make([]byte, 3))
	assert.Error(t, err)
	w, h := r.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
}

func TestRecorderEncoderFailure(t *testing.T) {
	boom := errors.New("ffmpeg exited")
	r := newRecorder(1, 1, func(in io.Reader) error {
		return boom
	})

	// The write fails once the encoder has gone away.
	err := r.WriteFrame([]byte{0, 0, 0, 0})
	assert.Error(t, err)

	err = r.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestStartValidates(t *testing.T) {
	_, err := Start("", 640, 480, 60, "")
	assert.Error(t, err)
	_, err = Start("out.mp4", 0, 480, 60, "")
	assert.Error(t, err)
	_, err = Start("out.mp4", 640, 480, 0, "")
	assert.Error(t, err)
}

func TestEncoderArgs(t *testing.T) {
	assert.Equal(t, ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       "640x480",
		"r":       "30",
	}, inputArgs(640, 480, 30))

	out := outputArgs()
	assert.Equal(t, "vflip", out["vf"])
	assert.Equal(t, "yuv420p", out["pix_fmt"])
}
