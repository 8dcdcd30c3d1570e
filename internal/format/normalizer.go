// Package format reduces the extractor's raw, heterogeneous format list
// to a short, deduplicated, display-ready list of video renditions.
package format

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iconidentify/vidgrab/internal/domain"
	"github.com/iconidentify/vidgrab/internal/extractor"
)

// DefaultLimit caps how many renditions an info response carries.
const DefaultLimit = 10

const descSeparator = " • "

// Normalize converts raw formats into a ranked, deduplicated list of at
// most limit entries. Audio-only variants (vcodec "none") are dropped;
// formats with an unknown codec stay, since HLS manifests often omit it.
// The rest are sorted by descending (height, quality) and deduplicated
// on the (height, ext) pair, keeping the highest-ranked occurrence.
// Pure and deterministic: same input, same output.
func Normalize(raw []extractor.RawFormat, limit int) []domain.FormatVariant {
	if limit <= 0 {
		limit = DefaultLimit
	}

	variants := make([]domain.FormatVariant, 0, len(raw))
	for _, f := range raw {
		if f.VCodec == "none" {
			continue
		}
		variants = append(variants, enrich(f))
	}

	sort.SliceStable(variants, func(i, j int) bool {
		if variants[i].Height != variants[j].Height {
			return variants[i].Height > variants[j].Height
		}
		return variants[i].Quality > variants[j].Quality
	})

	type resolutionKey struct {
		height int
		ext    string
	}
	seen := make(map[resolutionKey]struct{}, len(variants))
	unique := variants[:0]
	for _, v := range variants {
		key := resolutionKey{v.Height, v.Ext}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, v)
		if len(unique) >= limit {
			break
		}
	}

	return unique
}

// enrich copies a raw format and derives its display fields.
func enrich(f extractor.RawFormat) domain.FormatVariant {
	v := domain.FormatVariant{
		FormatID:       f.FormatID,
		Ext:            f.Ext,
		Resolution:     f.Resolution,
		Height:         f.Height,
		Width:          f.Width,
		FPS:            f.FPS,
		Filesize:       f.Filesize,
		FilesizeApprox: f.FilesizeApprox,
		TBR:            f.TBR,
		VBR:            f.VBR,
		ABR:            f.ABR,
		ACodec:         f.ACodec,
		VCodec:         f.VCodec,
		FormatNote:     f.FormatNote,
		Quality:        f.Quality,
	}
	if v.Resolution == "" {
		v.Resolution = "Unknown"
	}
	v.QualityDesc = qualityDesc(f)
	v.SizeMB = sizeMB(f)
	return v
}

// qualityDesc builds a human-readable descriptor like "1080p • 60fps • MP4".
func qualityDesc(f extractor.RawFormat) string {
	var parts []string
	if f.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dp", f.Height))
	}
	if f.FPS > 0 {
		parts = append(parts, fmt.Sprintf("%gfps", f.FPS))
	}
	if f.Ext != "" {
		parts = append(parts, strings.ToUpper(f.Ext))
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, descSeparator)
}

// sizeMB derives an approximate size in megabytes from the exact size,
// falling back to the declared approximate size, else nil for unknown.
func sizeMB(f extractor.RawFormat) *float64 {
	size := f.Filesize
	if size == 0 {
		size = f.FilesizeApprox
	}
	if size == 0 {
		return nil
	}
	mb := math.Round(float64(size)/(1024*1024)*10) / 10
	return &mb
}
