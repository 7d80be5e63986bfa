// Package segprep prepares supervised image-segmentation datasets.
//
// It ingests raw images with pixel-wise ground-truth label masks,
// normalizes every pair to a fixed square resolution while preserving
// the pixel correspondence between image and mask, derives a binary
// class-presence vector from each mask, and maintains a persistable
// catalog of classes and processed images.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/menta2k/segprep"
//		"github.com/menta2k/segprep/pkg/preprocess"
//	)
//
//	func main() {
//		// Build the class table from the glossary and wire the pipeline
//		pipeline, err := segprep.New(512, "mapillary/config.json", preprocess.Options{})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Resize, crop and index every pair under data/images + data/labels
//		if err := pipeline.Populate("data"); err != nil {
//			log.Fatal(err)
//		}
//
//		// Persist the catalog for later reloading
//		if err := pipeline.Save("data/training.json"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of five main components:
//
// 1. Geometry (pkg/geometry): shorter-side resize and shared-offset square crop
// 2. Labels (pkg/labels): mask reduction to binary class-presence vectors
// 3. Glossary (pkg/glossary): class definition parsing
// 4. Catalog (pkg/catalog): class/image index with JSON persistence
// 5. Preprocess (pkg/preprocess): the per-pair pipeline and parallel driver
//
// The correctness core is the shared geometry: both halves of a pair
// are resized with the same target and cropped with the same offset, so
// every pixel in the processed image maps to the same pixel in the
// processed mask.
package segprep

import (
	"fmt"

	"github.com/menta2k/segprep/pkg/catalog"
	"github.com/menta2k/segprep/pkg/glossary"
	"github.com/menta2k/segprep/pkg/preprocess"
	"github.com/menta2k/segprep/pkg/types"
)

// Version of the segprep library
const Version = "1.0.0"

// Pipeline wires the glossary, catalog and preprocessor together.
type Pipeline struct {
	Catalog      *catalog.Catalog
	preprocessor *preprocess.Preprocessor
}

// New builds a pipeline for size x size output images: it parses the
// glossary at glossaryPath, fills a fresh catalog's class table from it
// and constructs the preprocessor with opts.
func New(size int, glossaryPath string, opts preprocess.Options) (*Pipeline, error) {
	entries, err := glossary.LoadFile(glossaryPath)
	if err != nil {
		return nil, fmt.Errorf("building glossary: %w", err)
	}

	cat := catalog.New(size, opts.Logger)
	for _, entry := range entries {
		cat.AddClass(entry.ID, types.Class{
			Name:     entry.Name,
			Category: entry.Category,
			Color:    entry.Color,
		})
	}
	return &Pipeline{
		Catalog:      cat,
		preprocessor: preprocess.New(cat, opts),
	}, nil
}

// Load reconstructs a pipeline around a previously saved dataset
// document, so the catalog can be inspected without reprocessing.
func Load(path string, opts preprocess.Options) (*Pipeline, error) {
	cat, err := catalog.LoadFile(path, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Catalog:      cat,
		preprocessor: preprocess.New(cat, opts),
	}, nil
}

// Populate processes every image/mask pair under datadir and appends
// the records to the catalog.
func (p *Pipeline) Populate(datadir string) error {
	return p.preprocessor.PopulateDir(datadir)
}

// ProcessPair runs the pipeline for a single pair without touching the
// catalog's image map.
func (p *Pipeline) ProcessPair(imagePath, labelPath, outPath string) (preprocess.Result, error) {
	return p.preprocessor.ProcessPair(imagePath, labelPath, outPath)
}

// Save persists the catalog as a dataset document at path.
func (p *Pipeline) Save(path string) error {
	return p.Catalog.Save(path)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
