// Package biometric implements the capture gate: a pure, local decision from
// image frame to verdict. No state carries across attempts and nothing here
// touches the network; retry belongs to the caller's control flow.
package biometric

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png" // webcam uploads arrive as JPEG, file pickers may hand over PNG

	"eregister/internal/platform/metrics"
)

// ErrNoFaceDetected rejects a frame: zero faces, several faces, or an
// indeterminate frame all collapse to the same verdict.
var ErrNoFaceDetected = errors.New("no single face detected")

// FaceCounter abstracts the detector so the gate and its callers can be
// tested without a cascade file.
type FaceCounter interface {
	CountFaces(img image.Image) (int, error)
}

// Verdict is the gate's decision on one frame.
type Verdict string

const (
	VerdictPassedSingleFace Verdict = "passed_single_face"
	VerdictNoFaceDetected   Verdict = "no_face_detected"
)

// Capture is an accepted frame, re-encoded and ready for the blob store.
// It is transient by design: rejected frames are discarded immediately and
// accepted ones only live until the upload completes.
type Capture struct {
	Blob        []byte
	ContentType string
}

// Gate validates a captured frame before it may enter a submission.
type Gate struct {
	detector FaceCounter
	metrics  *metrics.Metrics
}

func NewGate(detector FaceCounter, m *metrics.Metrics) *Gate {
	return &Gate{detector: detector, metrics: m}
}

// Evaluate accepts frame iff exactly one face is detected at or above the
// detector's quality threshold. Accepted frames are encoded as JPEG; on
// rejection the input is discarded and the caller may retake freely.
func (g *Gate) Evaluate(frame []byte) (Capture, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		g.observe(VerdictNoFaceDetected)
		return Capture{}, fmt.Errorf("%w: undecodable frame", ErrNoFaceDetected)
	}

	count, err := g.detector.CountFaces(img)
	if err != nil {
		g.observe(VerdictNoFaceDetected)
		return Capture{}, fmt.Errorf("%w: %v", ErrNoFaceDetected, err)
	}
	if count != 1 {
		g.observe(VerdictNoFaceDetected)
		return Capture{}, fmt.Errorf("%w: found %d", ErrNoFaceDetected, count)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		g.observe(VerdictNoFaceDetected)
		return Capture{}, fmt.Errorf("%w: encode failed", ErrNoFaceDetected)
	}

	g.observe(VerdictPassedSingleFace)
	return Capture{Blob: buf.Bytes(), ContentType: "image/jpeg"}, nil
}

func (g *Gate) observe(v Verdict) {
	if g.metrics != nil {
		g.metrics.CaptureVerdicts.WithLabelValues(string(v)).Inc()
	}
}
