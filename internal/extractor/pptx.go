package extractor

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"

	"docrouter/internal/models"
)

// extractPPTX reads a PowerPoint archive. Slide text runs become text
// blocks (one per slide), embedded media become image refs.
func extractPPTX(path string) *models.RawContentBundle {
	bundle := &models.RawContentBundle{}

	zr, err := zip.OpenReader(path)
	if err != nil {
		bundle.AddError(models.ChannelText, fmt.Sprintf("open pptx: %v", err))
		return bundle
	}
	defer zr.Close()

	var slides []string
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml"):
			slides = append(slides, f.Name)
		case strings.HasPrefix(f.Name, "ppt/media/") && !strings.HasSuffix(f.Name, "/"):
			bundle.Images = append(bundle.Images, models.ImageRef{
				Page:  1,
				Index: len(bundle.Images),
				Ref:   f.Name,
			})
		}
	}
	sort.Strings(slides)

	for slideNum, name := range slides {
		data, err := readArchiveFile(zr, name)
		if err != nil {
			bundle.AddError(models.ChannelText, fmt.Sprintf("slide %s: %v", name, err))
			continue
		}
		text := strings.TrimSpace(extractTextRuns(string(data)))
		if text == "" {
			continue
		}
		bundle.TextBlocks = append(bundle.TextBlocks, models.TextBlock{
			Text:   text,
			Page:   slideNum + 1,
			Offset: len(bundle.TextBlocks),
		})
	}

	return bundle
}

func readArchiveFile(zr *zip.ReadCloser, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("entry not found")
}

// extractTextRuns pulls the content of <a:t> runs out of DrawingML.
func extractTextRuns(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}
