// Package vision labels captured images.
package vision

import (
	"context"
	"errors"
)

// ErrNotFound means no label could be produced. Transport and service errors
// are reported as ErrNotFound too.
var ErrNotFound = errors.New("vision: no object detected")

// Labeler returns the single best label for an encoded image.
type Labeler interface {
	DetectLabel(ctx context.Context, image []byte) (string, error)
}
