// Package extractor turns document files into raw content bundles.
//
// Each supported format has its own extraction path with independent text,
// table, and image channels. A failure inside one channel is recorded as a
// recoverable FormatError on the bundle and never aborts the other channels.
// The only fatal conditions at this layer are an unreadable file and an
// unsupported extension, and the latter is still reported through the bundle.
package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docrouter/internal/models"
)

// ChannelFormat attributes errors to format detection rather than one of
// the three content channels.
const ChannelFormat = "format"

// Extract reads one file and returns whatever content could be recovered.
// The returned error is non-nil only when the file itself cannot be read.
func Extract(path string) (*models.RawContentBundle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var bundle *models.RawContentBundle
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		bundle = extractPDF(path)
	case ".docx", ".doc":
		bundle = extractDocx(path)
	case ".pptx":
		bundle = extractPPTX(path)
	case ".xlsx":
		bundle = extractXLSX(path)
	case ".ods":
		bundle = extractODS(path)
	case ".txt", ".text":
		bundle = extractText(path)
	case ".md", ".markdown":
		bundle = extractMarkdown(path)
	default:
		bundle = &models.RawContentBundle{}
		bundle.AddError(ChannelFormat, fmt.Sprintf("unsupported file format: %q", ext))
	}

	// Bundle invariant: an empty bundle must explain itself.
	if !bundle.HasContent() && len(bundle.FormatErrors) == 0 {
		bundle.AddError(ChannelFormat, "no content recovered from file")
	}
	return bundle, nil
}

// Supported reports whether the file extension has an extraction path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// SupportedExtensions returns every extension Extract can handle.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".doc", ".pptx", ".xlsx", ".ods", ".txt", ".text", ".md", ".markdown"}
}
