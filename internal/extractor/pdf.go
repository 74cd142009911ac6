package extractor

import (
	"fmt"
	"os"
	"strings"

	"docrouter/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF runs the three PDF channels independently. The text channel
// uses ledongthuc/pdf, the image channel walks the pdfcpu object structure,
// and the table channel detects delimited grids inside the extracted text.
func extractPDF(path string) *models.RawContentBundle {
	bundle := &models.RawContentBundle{}

	if err := pdfTextChannel(path, bundle); err != nil {
		bundle.AddError(models.ChannelText, fmt.Sprintf("pdf text extraction failed: %v", err))
	}
	if err := pdfImageChannel(path, bundle); err != nil {
		bundle.AddError(models.ChannelImage, fmt.Sprintf("pdf image scan failed: %v", err))
	}

	// Delimited tables are recovered from the text that survived, so a
	// text-channel failure implicitly disables this channel too.
	bundle.Tables = append(bundle.Tables, detectDelimitedTables(bundle.TextBlocks)...)

	return bundle
}

// pdfTextChannel extracts plain text page by page. The underlying parser
// panics on some malformed cross-reference tables, so the whole channel is
// guarded and a panic degrades to a channel error.
func pdfTextChannel(path string, bundle *models.RawContentBundle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return err
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			bundle.AddError(models.ChannelText, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		bundle.TextBlocks = append(bundle.TextBlocks, models.TextBlock{
			Text:   pageText,
			Page:   i,
			Offset: len(bundle.TextBlocks),
		})
	}
	return nil
}

// pdfImageChannel records image XObjects per page via pdfcpu.
func pdfImageChannel(path string, bundle *models.RawContentBundle) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return fmt.Errorf("pdfcpu read: %w", err)
	}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		for idx, objNr := range pdfcpu.ImageObjNrs(ctx, pageNr) {
			bundle.Images = append(bundle.Images, models.ImageRef{
				Page:  pageNr,
				Index: idx,
				Ref:   fmt.Sprintf("pdf:obj:%d", objNr),
			})
		}
	}
	return nil
}
