// Package extraction wraps the document layout-analysis service: it submits
// a binary document, waits for the long-running analysis to finish, and
// reduces the verbose result to a compact JSON payload for the agent.
package extraction

// Span is a character range into the document content.
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// BoundingRegion is the positional metadata attached to analysis elements.
type BoundingRegion struct {
	PageNumber int       `json:"pageNumber"`
	Polygon    []float64 `json:"polygon,omitempty"`
}

// Paragraph is one extracted paragraph with its position metadata.
type Paragraph struct {
	Role            string           `json:"role,omitempty"`
	Content         string           `json:"content"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
	Spans           []Span           `json:"spans,omitempty"`
}

// TableCell is one cell of an extracted table.
type TableCell struct {
	Kind            string           `json:"kind,omitempty"`
	RowIndex        int              `json:"rowIndex"`
	ColumnIndex     int              `json:"columnIndex"`
	RowSpan         int              `json:"rowSpan,omitempty"`
	ColumnSpan      int              `json:"columnSpan,omitempty"`
	Content         string           `json:"content"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
	Spans           []Span           `json:"spans,omitempty"`
	Elements        []string         `json:"elements,omitempty"`
}

// TableCaption is an extracted table caption.
type TableCaption struct {
	Content         string           `json:"content"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
	Spans           []Span           `json:"spans,omitempty"`
	Elements        []string         `json:"elements,omitempty"`
}

// Table is one extracted table with cells and position metadata.
type Table struct {
	RowCount        int              `json:"rowCount"`
	ColumnCount     int              `json:"columnCount"`
	Cells           []TableCell      `json:"cells"`
	Caption         *TableCaption    `json:"caption,omitempty"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
	Spans           []Span           `json:"spans,omitempty"`
}

// AnalyzeResult is the layout-analysis output this service consumes.
type AnalyzeResult struct {
	Content    string      `json:"content"`
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
	Tables     []Table     `json:"tables,omitempty"`
}
