package biometric

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCounter returns a fixed face count so gate behavior can be exercised
// without a cascade file.
type stubCounter struct {
	count int
	err   error
}

func (s stubCounter) CountFaces(image.Image) (int, error) { return s.count, s.err }

func testFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.Gray{Y: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestGateAcceptsExactlyOneFace(t *testing.T) {
	gate := NewGate(stubCounter{count: 1}, nil)

	capture, err := gate.Evaluate(testFrame(t))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", capture.ContentType)
	assert.NotEmpty(t, capture.Blob)

	// The accepted blob must itself be a decodable JPEG.
	_, format, err := image.Decode(bytes.NewReader(capture.Blob))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestGateRejectsZeroAndMultipleFaces(t *testing.T) {
	frame := testFrame(t)

	for _, count := range []int{0, 2, 5} {
		gate := NewGate(stubCounter{count: count}, nil)
		_, err := gate.Evaluate(frame)
		require.ErrorIs(t, err, ErrNoFaceDetected, "count=%d", count)
	}
}

func TestGateRejectsUndecodableFrame(t *testing.T) {
	gate := NewGate(stubCounter{count: 1}, nil)

	_, err := gate.Evaluate([]byte("not an image"))
	require.ErrorIs(t, err, ErrNoFaceDetected)
}

func TestGateAcceptsPNGInputAsJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	gate := NewGate(stubCounter{count: 1}, nil)
	capture, err := gate.Evaluate(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", capture.ContentType)
}

// TestGateIsRepeatable verifies no state carries across attempts: the same
// frame yields the same verdict every time.
func TestGateIsRepeatable(t *testing.T) {
	gate := NewGate(stubCounter{count: 0}, nil)
	frame := testFrame(t)

	for i := 0; i < 3; i++ {
		_, err := gate.Evaluate(frame)
		require.ErrorIs(t, err, ErrNoFaceDetected)
	}

	accept := NewGate(stubCounter{count: 1}, nil)
	first, err := accept.Evaluate(frame)
	require.NoError(t, err)
	second, err := accept.Evaluate(frame)
	require.NoError(t, err)
	assert.Equal(t, first.Blob, second.Blob)
}

// TestDetectorRejectsBlankFrame runs the real cascade when present; CI
// without the model file skips.
func TestDetectorRejectsBlankFrame(t *testing.T) {
	const cascadePath = "../../cascade/facefinder"
	if _, err := os.Stat(cascadePath); err != nil {
		t.Skip("facefinder cascade not present")
	}

	detector, err := NewDetectorFromFile(cascadePath)
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	count, err := detector.CountFaces(img)
	require.NoError(t, err)
	assert.Zero(t, count)
}
