// Package analyzer classifies raw content bundles.
//
// Analyze is a pure function of its input: no I/O, deterministic, and
// total over every bundle the extractor can legally produce.
package analyzer

import (
	"errors"
	"fmt"

	"docrouter/internal/models"
)

// ErrEmptyBundle marks a bundle that reached analysis with no content and
// no explanation, violating the extractor contract.
var ErrEmptyBundle = errors.New("bundle has no content and no format errors")

// structuredTextThreshold is the marker count needed for STRUCTURED_TEXT.
const structuredTextThreshold = 2

// Analyze classifies a bundle, scores its quality, and recommends a chunk
// size range and processing strategy.
func Analyze(bundle *models.RawContentBundle) (*models.ContentClassification, error) {
	if bundle == nil {
		return nil, errors.New("nil bundle")
	}
	if !bundle.HasContent() && len(bundle.FormatErrors) == 0 {
		return nil, ErrEmptyBundle
	}
	if !bundle.HasContent() {
		return nil, fmt.Errorf("no usable content: %s", bundle.FormatErrors[0].String())
	}

	markers := scanMarkers(bundle.Text())
	contentType := classify(len(bundle.Tables) > 0, len(bundle.Images) > 0, markers.Count)
	score := qualityScore(bundle, markers)

	strategy, err := StrategyFor(contentType)
	if err != nil {
		return nil, err
	}

	return &models.ContentClassification{
		ContentType:  contentType,
		QualityScore: score,
		ChunkRange:   recommendChunkRange(contentType, score, markers),
		Strategy:     strategy,
		MarkerCount:  markers.Count,
		TableCount:   len(bundle.Tables),
		ImageCount:   len(bundle.Images),
	}, nil
}

// classify is the content-type decision table. Priority order is part of
// the design: tables and images dominate plain structural markers, and the
// table+image combination dominates everything else.
func classify(hasTables, hasImages bool, markerCount int) models.ContentType {
	switch {
	case hasTables && hasImages:
		return models.TextTableImage
	case hasTables:
		return models.TextTable
	case markerCount >= structuredTextThreshold:
		return models.StructuredText
	case hasImages && markerCount >= 1:
		return models.MixedContent
	default:
		return models.TextOnly
	}
}

// strategyTable maps every content type to its chunking strategy. Totality
// over models.ContentTypes() is enforced by StrategyFor and by tests.
var strategyTable = map[models.ContentType]models.Strategy{
	models.TextOnly:       models.RecursiveSplit,
	models.StructuredText: models.MarkerAlignedSplit,
	models.TextTable:      models.TablePreservingSplit,
	models.TextTableImage: models.TablePreservingSplit,
	models.MixedContent:   models.MediaAwareSplit,
}

// StrategyFor returns the chunking strategy for a content type.
func StrategyFor(ct models.ContentType) (models.Strategy, error) {
	s, ok := strategyTable[ct]
	if !ok {
		return "", fmt.Errorf("no strategy mapped for content type %q", ct)
	}
	return s, nil
}

// recommendChunkRange derives the chunk size window. Table-bearing content
// scales with quality (noisy extractions get smaller chunks to limit the
// damage of a bad split); structured text aligns to the mean marker unit;
// the result is always clamped to [MinChunkSize, MaxChunkSize].
func recommendChunkRange(ct models.ContentType, score float64, markers markerStats) models.ChunkRange {
	var r models.ChunkRange
	switch ct {
	case models.TextTable, models.TextTableImage:
		r = models.ChunkRange{
			Min: int(200 + 600*score),
			Max: int(600 + 1400*score),
		}
	case models.StructuredText:
		unit := markers.UnitSize
		if unit <= 0 {
			unit = 600
		}
		r = models.ChunkRange{Min: unit, Max: unit * 3}
	case models.MixedContent:
		r = models.ChunkRange{Min: 400, Max: 1200}
	default:
		r = models.ChunkRange{Min: 600, Max: 1500}
	}
	return r.Clamp()
}
