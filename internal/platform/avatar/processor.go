// Package avatar normalizes uploaded profile images to a fixed-size PNG.
package avatar

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// Size is the edge length of a normalized avatar in pixels.
const Size = 250

// MaxUploadBytes caps the accepted upload size.
const MaxUploadBytes = 1_000_000

// ErrProcessing is returned when the uploaded bytes cannot be decoded
// as an image.
var ErrProcessing = errors.New("cannot process image")

// Normalizer converts arbitrary uploaded image bytes into the stored
// avatar representation.
type Normalizer interface {
	// Normalize decodes the image and returns it as a Size×Size PNG.
	// Returns ErrProcessing when the data is not a decodable image.
	Normalize(data []byte) ([]byte, error)
}

// Processor implements Normalizer with the imaging library.
type Processor struct{}

// NewProcessor creates a Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Ensure Processor implements Normalizer
var _ Normalizer = (*Processor)(nil)

// Normalize implements the Normalizer interface. The image is scaled and
// center-cropped to fill the square, then re-encoded as PNG regardless
// of the input format.
func (p *Processor) Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	resized := imaging.Fill(img, Size, Size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrProcessing, err)
	}

	return buf.Bytes(), nil
}
