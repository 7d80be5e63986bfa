// Package preprocess drives the per-pair pipeline: resize an image and
// its label mask to a shared geometry, crop both with one offset,
// reduce the cropped mask to a label vector and append the result to
// the catalog.
package preprocess

import (
	"math"
	"math/rand"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/menta2k/segprep/internal/utils"
	"github.com/menta2k/segprep/pkg/catalog"
	"github.com/menta2k/segprep/pkg/geometry"
	"github.com/menta2k/segprep/pkg/imageio"
	"github.com/menta2k/segprep/pkg/labels"
	"github.com/menta2k/segprep/pkg/types"
)

// OffsetSource draws a crop offset in [0, max]. Implementations must be
// safe for concurrent use; tests supply deterministic sources to pin
// the crop window.
type OffsetSource func(max int) int

// Options configures a Preprocessor.
type Options struct {
	Workers     int            // parallel pairs, 0 means one per CPU
	JPEGQuality int            // processed image quality, 0 means 90
	Offsets     OffsetSource   // nil means math/rand
	Logger      *logrus.Logger // nil means the logrus standard logger
	Progress    bool           // show a progress bar during PopulateDir
}

// Preprocessor turns raw image/mask pairs into processed images and
// catalog records.
type Preprocessor struct {
	cat      *catalog.Catalog
	workers  int
	quality  int
	offsets  OffsetSource
	logger   *logrus.Logger
	progress bool
}

// New creates a Preprocessor appending into cat.
func New(cat *catalog.Catalog, opts Options) *Preprocessor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 90
	}
	if opts.Offsets == nil {
		opts.Offsets = func(max int) int { return rand.Intn(max + 1) }
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Preprocessor{
		cat:      cat,
		workers:  opts.Workers,
		quality:  opts.JPEGQuality,
		offsets:  opts.Offsets,
		logger:   opts.Logger,
		progress: opts.Progress,
	}
}

// Result describes one processed pair.
type Result struct {
	Record types.ImageRecord

	// ResizingRatio is ceil(original area / target area), kept as
	// auxiliary metadata for downstream sample weighting.
	ResizingRatio int
}

// ProcessPair resizes imagePath and labelPath to the catalog's target
// size, crops both with a single shared offset, writes the processed
// image to outPath and reduces the cropped mask to a label vector.
func (p *Preprocessor) ProcessPair(imagePath, labelPath, outPath string) (Result, error) {
	size := p.cat.ImageSize()

	raw, err := imageio.Load(imagePath)
	if err != nil {
		return Result{}, errors.Wrapf(err, "reading image %s", imagePath)
	}
	mask, err := imageio.Load(labelPath)
	if err != nil {
		return Result{}, errors.Wrapf(err, "reading label mask %s", labelPath)
	}

	bounds := raw.Bounds()
	originalArea := bounds.Dx() * bounds.Dy()

	resizedImg, err := geometry.ResizeToShorterSide(raw, size, imaging.Lanczos)
	if err != nil {
		return Result{}, errors.Wrapf(err, "resizing image %s", imagePath)
	}
	// Nearest neighbor keeps mask colors exact; interpolation would
	// invent colors that match no class.
	resizedMask, err := geometry.ResizeToShorterSide(mask, size, imaging.NearestNeighbor)
	if err != nil {
		return Result{}, errors.Wrapf(err, "resizing label mask %s", labelPath)
	}

	ib, mb := resizedImg.Bounds(), resizedMask.Bounds()
	if ib.Dx() != mb.Dx() || ib.Dy() != mb.Dy() {
		return Result{}, errors.Errorf("image %s and mask %s disagree on size after resize (%dx%d vs %dx%d)",
			imagePath, labelPath, ib.Dx(), ib.Dy(), mb.Dx(), mb.Dy())
	}

	// One offset for both crops. Drawing it twice would break the
	// pixel correspondence between image and mask.
	offset := p.offsets(geometry.MaxOffset(resizedImg, size))
	croppedImg := geometry.SquareCrop(resizedImg, offset, size)
	croppedMask := geometry.SquareCrop(resizedMask, offset, size)

	vector := labels.Reduce(croppedMask, p.cat.ClassColors())

	if err := imageio.Save(croppedImg, outPath, "jpg", p.quality, false); err != nil {
		return Result{}, errors.Wrapf(err, "writing %s", outPath)
	}

	return Result{
		Record: types.ImageRecord{
			RawFilename:   imagePath,
			ImageFilename: outPath,
			LabelFilename: labelPath,
			Labels:        vector,
		},
		ResizingRatio: int(math.Ceil(float64(originalArea) / float64(size*size))),
	}, nil
}

// PopulateDir processes every raw image under datadir/images against
// its mask under datadir/labels and appends one record per pair to the
// catalog. Processed images are written to datadir/input. Image ids
// follow directory name order starting at 0. Pairs run on parallel
// workers; the first failure stops the run and is returned.
func (p *Preprocessor) PopulateDir(datadir string) error {
	imageDir := filepath.Join(datadir, "images")
	inputDir := filepath.Join(datadir, "input")
	if err := utils.EnsureDir(inputDir); err != nil {
		return errors.Wrapf(err, "creating %s", inputDir)
	}
	files, err := utils.ListImageFiles(imageDir)
	if err != nil {
		return errors.Wrapf(err, "listing %s", imageDir)
	}
	p.logger.WithFields(logrus.Fields{
		"datadir": datadir,
		"pairs":   len(files),
		"workers": p.workers,
	}).Info("populating dataset")

	var bar *progressbar.ProgressBar
	if p.progress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Preprocessing"),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("pairs"),
		)
	}

	type job struct {
		id   int
		path string
	}
	jobs := make(chan job, len(files))
	for id, path := range files {
		jobs <- job{id: id, path: path}
	}
	close(jobs)

	errChan := make(chan error, p.workers)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				labelPath := utils.LabelPath(j.path)
				outPath := utils.ProcessedPath(j.path)
				result, err := p.ProcessPair(j.path, labelPath, outPath)
				if err != nil {
					errChan <- err
					return
				}
				p.cat.AddImage(j.id, result.Record)
				p.logger.WithFields(logrus.Fields{
					"image_id":       j.id,
					"resizing_ratio": result.ResizingRatio,
					"output":         outPath,
				}).Debug("pair processed")
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	close(errChan)
	return <-errChan
}
