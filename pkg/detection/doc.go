// Package detection finds blobs in images at multiple scales.
//
// A blob is a roughly circular region that is brighter or darker than its
// surroundings. The detector builds a scale space from a grayscale copy of
// the image, looks for points that are strict local maxima across both
// position and scale, and reports each one as a circle whose radius follows
// from the scale it was found at.
//
// # Strategies
//
// Two ways of building the scale space are supported:
//
//   - LoG (Laplacian of Gaussian): 8 levels, sigma = e^0.5 .. e^3.3,
//     response threshold 0.35. The more accurate of the two.
//   - DoG (Difference of Gaussians): 6 levels, sigma = e^1.0 .. e^3.0,
//     response threshold 0.7. Cheaper; each level is rescaled to [0, 1].
//
// Only the interior levels of a scale space can produce blobs, since a
// maximum must be compared against the levels on both sides of it.
//
// # Usage
//
// For a one-off detection:
//
//	blobs, err := detection.Detect(img, detection.LoG)
//
// To keep the intermediate scale space or render the result:
//
//	d, err := detection.New(img, detection.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	blobs, err := d.Blobs()
//	overlay, err := d.Render()
//
// # Coordinate System
//
// Blob centers are in the coordinate space of the input image, so an image
// whose bounds do not start at (0, 0) yields centers offset by Bounds().Min.
//
// # Radius
//
// A blob found at scale sigma has radius sigma*sqrt(2), the radius of the
// disk whose scale-normalized Laplacian response peaks at that sigma.
//
// # Thread Safety
//
// A Detector may be used from several goroutines. Blobs are computed once and
// cached; every call returns a fresh copy of the cached slice.
package detection
