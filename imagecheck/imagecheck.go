// Package imagecheck detects reused profile pictures by comparing perceptual
// hashes against a corpus of known images. Hashes are 64-bit, so two images
// at Hamming distance 0 look identical and distance 64 share nothing.
package imagecheck

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	// Decoders for the corpus formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
)

// Status says what the comparison concluded.
type Status string

// Comparison outcomes.
const (
	StatusOriginal Status = "Original"
	StatusReused   Status = "Possibly Reused"
	StatusNoImage  Status = "No Image"
)

const hashBits = 64

// DefaultThreshold is the Hamming distance at or below which an image counts
// as reused.
const DefaultThreshold = 8

// Result is the outcome of one image check.
type Result struct {
	Status          Status
	ClosestMatch    string
	Similarity      float64
	ClosestDistance int
}

// NoImage is the result when the account has no picture to check.
func NoImage() Result {
	return Result{Status: StatusNoImage, ClosestDistance: hashBits}
}

// Checker compares candidate images against a corpus.
type Checker struct {
	logger    *slog.Logger
	threshold int
}

// Option configures a Checker.
type Option func(*Checker)

// WithThreshold overrides the reuse distance threshold.
func WithThreshold(threshold int) Option {
	return func(c *Checker) { c.threshold = threshold }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{logger: slog.Default(), threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check hashes the image at imagePath and compares it against every readable
// image in corpusDir. Unreadable corpus entries are skipped; an unreadable
// input is an error. An empty corpus yields StatusOriginal with zero
// similarity.
func (c *Checker) Check(imagePath, corpusDir string) (Result, error) {
	inputHash, err := hashFile(imagePath)
	if err != nil {
		return Result{}, fmt.Errorf("input image %s: %w", imagePath, err)
	}

	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return Result{}, fmt.Errorf("corpus directory %s: %w", corpusDir, err)
	}

	best := hashBits
	bestMatch := ""
	compared := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(corpusDir, entry.Name())
		corpusHash, err := hashFile(path)
		if err != nil {
			c.logger.Debug("skipping unreadable corpus image", "path", path, "error", err)
			continue
		}
		compared++

		distance, err := inputHash.Distance(corpusHash)
		if err != nil {
			c.logger.Debug("skipping incomparable corpus image", "path", path, "error", err)
			continue
		}
		if distance < best {
			best = distance
			bestMatch = entry.Name()
		}
	}

	c.logger.Debug("image comparison complete",
		"image", imagePath, "compared", compared, "closest_distance", best)

	similarity := 1 - float64(best)/hashBits
	similarity = math.Round(math.Max(0, math.Min(1, similarity))*10000) / 10000

	status := StatusOriginal
	if compared > 0 && best <= c.threshold {
		status = StatusReused
	}

	return Result{
		Status:          status,
		ClosestMatch:    bestMatch,
		Similarity:      similarity,
		ClosestDistance: best,
	}, nil
}

func hashFile(path string) (*goimagehash.ImageHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return goimagehash.PerceptionHash(img)
}
