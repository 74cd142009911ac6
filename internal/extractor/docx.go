package extractor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"

	"docrouter/internal/models"

	"github.com/nguyenthenguyen/docx"
)

// extractDocx reads a Word document. The text and table channels share one
// pass over word/document.xml; the image channel counts media entries in
// the archive.
func extractDocx(path string) *models.RawContentBundle {
	bundle := &models.RawContentBundle{}

	r, err := docx.ReadDocxFile(path)
	if err != nil {
		bundle.AddError(models.ChannelText, fmt.Sprintf("open docx: %v", err))
		// The archive may still be readable for media entries.
		docxImageChannel(path, bundle)
		return bundle
	}
	defer r.Close()

	content := r.Editable().GetContent()
	if err := docxContentChannels(content, bundle); err != nil {
		bundle.AddError(models.ChannelText, fmt.Sprintf("parse document.xml: %v", err))
	}
	docxImageChannel(path, bundle)

	return bundle
}

// docxContentChannels walks the WordprocessingML token stream, collecting
// paragraphs outside tables as text blocks and w:tbl grids as tables.
func docxContentChannels(content string, bundle *models.RawContentBundle) error {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		para       strings.Builder
		cell       strings.Builder
		row        []string
		rows       [][]string
		inPara     bool
		inCell     bool
		tableDepth int
	)

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					rows = nil
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					inCell = true
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					inPara = true
					para.Reset()
				}
			}

		case xml.CharData:
			switch {
			case inCell:
				cell.Write(t)
			case inPara:
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth == 1 && len(rows) > 0 {
					bundle.Tables = append(bundle.Tables, buildGrid(1, len(bundle.Tables), rows))
				}
				tableDepth--
			case "tr":
				if tableDepth == 1 && len(row) > 0 {
					rows = append(rows, row)
				}
			case "tc":
				if tableDepth == 1 && inCell {
					inCell = false
					row = append(row, strings.TrimSpace(cell.String()))
				}
			case "p":
				if inPara {
					inPara = false
					text := strings.TrimSpace(para.String())
					if text != "" {
						bundle.TextBlocks = append(bundle.TextBlocks, models.TextBlock{
							Text:   text,
							Page:   1,
							Offset: len(bundle.TextBlocks),
						})
					}
				}
			}
		}
	}

	if len(bundle.TextBlocks) == 0 && len(bundle.Tables) == 0 {
		return fmt.Errorf("no paragraphs or tables found")
	}
	return nil
}

// docxImageChannel records embedded media from word/media inside the archive.
func docxImageChannel(path string, bundle *models.RawContentBundle) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		bundle.AddError(models.ChannelImage, fmt.Sprintf("open archive: %v", err))
		return
	}
	defer zr.Close()

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") && !strings.HasSuffix(f.Name, "/") {
			bundle.Images = append(bundle.Images, models.ImageRef{
				Page:  1,
				Index: len(bundle.Images),
				Ref:   f.Name,
			})
		}
	}
}
