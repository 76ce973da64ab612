package biometric

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

const (
	// defaultQuality is the minimum pigo detection score counted as a face.
	defaultQuality float32 = 5.0
	// clusterIoU merges overlapping detections of the same face.
	clusterIoU = 0.18
)

// Detector runs pigo face detection over a decoded frame. It holds no
// per-call state, so one instance serves concurrent evaluations.
type Detector struct {
	classifier *pigo.Pigo
	quality    float32
}

// NewDetector unpacks a pigo facefinder cascade.
func NewDetector(cascade []byte) (*Detector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &Detector{classifier: classifier, quality: defaultQuality}, nil
}

// NewDetectorFromFile loads the cascade from disk.
func NewDetectorFromFile(path string) (*Detector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cascade %s: %w", path, err)
	}
	return NewDetector(cascade)
}

// CountFaces returns the number of distinct faces detected at or above the
// quality threshold.
func (d *Detector) CountFaces(img image.Image) (int, error) {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	if rows == 0 || cols == 0 {
		return 0, fmt.Errorf("empty frame")
	}

	pixels := pigo.RgbToGrayscale(img)

	minSize := rows / 5
	if cols < rows {
		minSize = cols / 5
	}
	if minSize < 20 {
		minSize = 20
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     max(rows, cols),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, clusterIoU)

	count := 0
	for _, det := range dets {
		if det.Q >= d.quality {
			count++
		}
	}
	return count, nil
}
