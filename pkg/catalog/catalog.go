// Package catalog maintains the in-memory index of dataset classes and
// preprocessed images, with JSON persistence.
package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/segprep/pkg/types"
)

// Catalog owns the class and image maps for one dataset. Both maps are
// append-only with first-write-wins semantics, and all access is safe
// for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	imageSize int
	classes   map[int]types.Class
	images    map[int]types.ImageRecord
	logger    *logrus.Logger
}

// New creates an empty catalog for size x size processed images. A nil
// logger falls back to the logrus standard logger.
func New(imageSize int, logger *logrus.Logger) *Catalog {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Catalog{
		imageSize: imageSize,
		classes:   make(map[int]types.Class),
		images:    make(map[int]types.ImageRecord),
		logger:    logger,
	}
}

// ImageSize returns the target square size all processed images share.
func (c *Catalog) ImageSize() int { return c.imageSize }

// AddClass stores a class under id. Re-adding an existing id is logged
// and ignored; the first entry wins.
func (c *Catalog) AddClass(id int, class types.Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.classes[id]; ok {
		c.logger.WithField("class_id", id).Warn("class already stored, keeping existing entry")
		return
	}
	c.classes[id] = class
}

// AddImage stores an image record under id with the same append-only,
// first-write-wins semantics as AddClass.
func (c *Catalog) AddImage(id int, record types.ImageRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[id]; ok {
		c.logger.WithField("image_id", id).Warn("image already stored, keeping existing entry")
		return
	}
	c.images[id] = record
}

// Class returns the class stored under id. The second return value is
// false when the id is absent.
func (c *Catalog) Class(id int) (types.Class, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	class, ok := c.classes[id]
	if !ok {
		c.logger.WithField("class_id", id).Warn("class not in the dataset glossary")
	}
	return class, ok
}

// Image returns the image record stored under id. The second return
// value is false when the id is absent.
func (c *Catalog) Image(id int) (types.ImageRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.images[id]
	if !ok {
		c.logger.WithField("image_id", id).Warn("image not in the dataset")
	}
	return record, ok
}

// NumClasses returns the number of classes in the catalog.
func (c *Catalog) NumClasses() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.classes)
}

// NumImages returns the number of image records in the catalog.
func (c *Catalog) NumImages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ClassIDs returns the class ids in ascending order.
func (c *Catalog) ClassIDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedClassIDs()
}

// ClassColors returns the class colors ordered by ascending class id.
// Index i of a label vector corresponds to index i of this slice.
func (c *Catalog) ClassColors() []types.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := c.sortedClassIDs()
	colors := make([]types.Color, len(ids))
	for i, id := range ids {
		colors[i] = c.classes[id].Color
	}
	return colors
}

func (c *Catalog) sortedClassIDs() []int {
	ids := make([]int, 0, len(c.classes))
	for id := range c.classes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ClassPopularity returns, per class rank, the fraction of image
// records whose label vector is set at that rank, rounded to three
// decimals. It returns nil when the catalog holds no images.
func (c *Catalog) ClassPopularity() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.images) == 0 {
		c.logger.Info("no images in the dataset")
		return nil
	}

	sums := make([]float64, len(c.classes))
	for _, record := range c.images {
		for i, bit := range record.Labels {
			if i < len(sums) {
				sums[i] += float64(bit)
			}
		}
	}
	n := float64(len(c.images))
	for i := range sums {
		sums[i] = math.Round(sums[i]/n*1000) / 1000
	}
	return sums
}

// document is the persisted dataset shape. Map keys are stringified
// integer ids, matching the external document contract.
type document struct {
	ImageSize int                          `json:"image_size"`
	Classes   map[string]types.Class       `json:"classes"`
	Images    map[string]types.ImageRecord `json:"images"`
}

// Save serializes the catalog as a JSON dataset document at path.
func (c *Catalog) Save(path string) error {
	c.mu.RLock()
	doc := document{
		ImageSize: c.imageSize,
		Classes:   make(map[string]types.Class, len(c.classes)),
		Images:    make(map[string]types.ImageRecord, len(c.images)),
	}
	for id, class := range c.classes {
		doc.Classes[strconv.Itoa(id)] = class
	}
	for id, record := range c.images {
		doc.Images[strconv.Itoa(id)] = record
	}
	c.mu.RUnlock()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("catalog: marshaling dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog: writing %s: %w", path, err)
	}
	c.logger.WithField("path", path).Info("dataset saved")
	return nil
}

// LoadFile reads a dataset document saved by Save into a fresh catalog,
// reconstructing integer ids from the document's string keys.
func LoadFile(path string, logger *logrus.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decoding %s: %w", path, err)
	}

	c := New(doc.ImageSize, logger)
	for key, class := range doc.Classes {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("catalog: invalid class id %q: %w", key, err)
		}
		c.classes[id] = class
	}
	for key, record := range doc.Images {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("catalog: invalid image id %q: %w", key, err)
		}
		c.images[id] = record
	}
	c.logger.WithField("path", path).Info("dataset loaded")
	return c, nil
}
