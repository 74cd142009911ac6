package extractor

import (
	"fmt"
	"os"
	"strings"

	"docrouter/internal/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
)

// extractText reads a plain text file. Paragraphs (blank-line separated)
// become text blocks; tab/pipe grids inside them feed the table channel.
func extractText(path string) *models.RawContentBundle {
	bundle := &models.RawContentBundle{}

	data, err := os.ReadFile(path)
	if err != nil {
		bundle.AddError(models.ChannelText, fmt.Sprintf("read file: %v", err))
		return bundle
	}

	for _, para := range strings.Split(string(data), "\n\n") {
		para = strings.TrimRight(para, " \t\n\r")
		if strings.TrimSpace(para) == "" {
			continue
		}
		bundle.TextBlocks = append(bundle.TextBlocks, models.TextBlock{
			Text:   para,
			Page:   1,
			Offset: len(bundle.TextBlocks),
		})
	}

	bundle.Tables = append(bundle.Tables, detectDelimitedTables(bundle.TextBlocks)...)
	return bundle
}

// extractMarkdown parses a markdown file with goldmark and walks the AST.
// Headings and list items keep their markers so structural signals survive
// into analysis; GFM tables become grids, image nodes become refs.
func extractMarkdown(path string) *models.RawContentBundle {
	bundle := &models.RawContentBundle{}

	src, err := os.ReadFile(path)
	if err != nil {
		bundle.AddError(models.ChannelText, fmt.Sprintf("read file: %v", err))
		return bundle
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(gtext.NewReader(src))

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			text := nodeText(n, src)
			if text == "" {
				continue
			}
			appendBlock(bundle, strings.Repeat("#", n.Level)+" "+text)
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				text := nodeText(item, src)
				if text == "" {
					continue
				}
				appendBlock(bundle, "- "+text)
			}
		case *east.Table:
			grid := tableGridFromNode(n, src)
			if grid.NumRows > 0 {
				grid.Index = len(bundle.Tables)
				bundle.Tables = append(bundle.Tables, grid)
			}
		default:
			text := nodeText(node, src)
			if text != "" {
				appendBlock(bundle, text)
			}
		}
	}

	// Images are inline nodes, so collect them in one pass over the tree.
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			bundle.Images = append(bundle.Images, models.ImageRef{
				Page:  1,
				Index: len(bundle.Images),
				Ref:   string(img.Destination),
			})
		}
		return ast.WalkContinue, nil
	})

	return bundle
}

func appendBlock(bundle *models.RawContentBundle, text string) {
	bundle.TextBlocks = append(bundle.TextBlocks, models.TextBlock{
		Text:   text,
		Page:   1,
		Offset: len(bundle.TextBlocks),
	})
}

// tableGridFromNode converts a GFM table node (header row + body rows)
// into a TableGrid.
func tableGridFromNode(table *east.Table, src []byte) models.TableGrid {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, nodeText(cell, src))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return buildGrid(1, 0, rows)
}

// nodeText concatenates the literal text beneath a node.
func nodeText(node ast.Node, src []byte) string {
	var sb strings.Builder
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
