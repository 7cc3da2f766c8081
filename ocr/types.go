package ocr

// Region is one recognized span of text in an image, with its
// bounding quadrilateral in pixel coordinates.
type Region struct {
	// Quad lists the corners clockwise from top-left.
	Quad [4]Point

	// Text is the recognized content of the region.
	Text string

	// Confidence is the recognition confidence in the range 0..1.
	Confidence float64
}

// Point is a pixel coordinate in image space.
type Point struct {
	X int
	Y int
}
