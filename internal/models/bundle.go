package models

// Extraction channels, used to attribute recoverable extraction errors.
const (
	ChannelText  = "text"
	ChannelTable = "table"
	ChannelImage = "image"
)

// TextBlock is one extracted run of text with its source location hint.
type TextBlock struct {
	Text   string
	Page   int
	Offset int
}

// TableGrid is one extracted table as a grid of cell strings.
type TableGrid struct {
	Page    int
	Index   int
	Rows    [][]string
	NumRows int
	NumCols int
}

// ImageRef describes one extracted image region. Ref points at the image
// payload inside the source file (object number, archive entry, URL).
type ImageRef struct {
	Page  int
	Index int
	Ref   string
}

// FormatError is a recoverable extraction warning scoped to one channel.
type FormatError struct {
	Channel string
	Detail  string
}

func (e FormatError) String() string {
	return e.Channel + ": " + e.Detail
}

// RawContentBundle is everything recovered from one file, prior to
// classification. A bundle with no text, tables, or images is only valid
// when FormatErrors explains why.
type RawContentBundle struct {
	TextBlocks   []TextBlock
	Tables       []TableGrid
	Images       []ImageRef
	FormatErrors []FormatError
}

// HasContent reports whether any channel recovered usable content.
func (b *RawContentBundle) HasContent() bool {
	return len(b.TextBlocks) > 0 || len(b.Tables) > 0 || len(b.Images) > 0
}

// Text concatenates all text blocks in order.
func (b *RawContentBundle) Text() string {
	var out string
	for i, tb := range b.TextBlocks {
		if i > 0 {
			out += "\n"
		}
		out += tb.Text
	}
	return out
}

// AddError appends a recoverable warning for the given channel.
func (b *RawContentBundle) AddError(channel, detail string) {
	b.FormatErrors = append(b.FormatErrors, FormatError{Channel: channel, Detail: detail})
}
