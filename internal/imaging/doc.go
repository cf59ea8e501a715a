// Package imaging provides the image primitives the blob detector is built on.
//
// This package converts standard Go image.Image values into single-channel
// floating-point buffers, filters those buffers, and draws detection overlays.
// Float buffers are gonum *mat.Dense values with one row per image row, so
// element (r, c) is the pixel at x = c, y = r.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel, matrix column)
//   - Y: vertical position (0 = topmost pixel, matrix row)
//
// # Filters
//
// The Filter interface abstracts the two smoothing primitives the scale-space
// builder needs: a Gaussian blur with an explicit kernel width and standard
// deviation, and a discrete Laplacian. Two implementations exist:
//   - NativeFilter: pure Go, always available
//   - OpenCVFilter: gocv bindings, compiled only with the "gocv" build tag
//
// Both use reflect-101 borders (OpenCV's BORDER_DEFAULT), so responses near the
// image edges agree between the two backends.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Empty images or buffers
//   - Buffers whose values fall outside [0, 1]
//   - Even or non-positive kernel widths, non-positive sigmas
//   - Malformed colour strings
//
// # Thread Safety
//
// All functions are stateless. Filters never modify their input, so the same
// source buffer may be blurred concurrently at several scales.
package imaging
