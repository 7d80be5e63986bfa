package types

// Color is an RGB triple identifying a segmentation class in a label
// mask. It serializes as a JSON array of three bytes.
type Color [3]uint8

// Class describes one semantic class from the dataset glossary. Color
// is the exact pixel value the class uses in ground-truth masks.
type Class struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    Color  `json:"color"`
}

// ImageRecord describes one preprocessed image pair: where the raw
// image and mask came from, where the processed image was written, and
// which classes the mask contains. Labels holds one 0/1 entry per
// catalog class, index-aligned with class ids in ascending order.
type ImageRecord struct {
	RawFilename   string `json:"raw_filename"`
	ImageFilename string `json:"image_filename"`
	LabelFilename string `json:"label_filename"`
	Labels        []int  `json:"labels"`
}
