package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// TableSummary is the summarized form of one table, keyed by the identifier
// the summarization model assigns.
type TableSummary struct {
	TableID string `json:"table_id"`
	Summary string `json:"summary"`
}

// Summarizer produces a summary for one table's JSON. A nil summary means
// the model response could not be used; the caller drops that table.
type Summarizer interface {
	SummarizeTable(ctx context.Context, tableJSON string) (*TableSummary, error)
}

// CleanOptions selects which parts of the analysis result survive cleaning.
type CleanOptions struct {
	KeepParagraphs  bool
	KeepTables      bool
	SummarizeTables bool
}

// CleanResult carries the compact document payload. When tables were
// summarized, OriginalTables maps each table id back to its full JSON.
type CleanResult struct {
	JSON           string
	OriginalTables map[string]string
}

type cleanedParagraph struct {
	Role       string `json:"role,omitempty"`
	Content    string `json:"content"`
	PageNumber int    `json:"pageNumber,omitempty"`
}

type cleanedCell struct {
	Kind        string `json:"kind,omitempty"`
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	RowSpan     int    `json:"rowSpan,omitempty"`
	ColumnSpan  int    `json:"columnSpan,omitempty"`
	Content     string `json:"content"`
}

type cleanedCaption struct {
	Content string `json:"content"`
}

type cleanedTable struct {
	RowCount    int             `json:"rowCount"`
	ColumnCount int             `json:"columnCount"`
	Cells       []cleanedCell   `json:"cells"`
	Caption     *cleanedCaption `json:"caption,omitempty"`
	PageNumber  int             `json:"pageNumber,omitempty"`
}

type cleanedDocument struct {
	Content    string             `json:"content"`
	Tables     []json.RawMessage  `json:"tables"`
	Paragraphs []cleanedParagraph `json:"paragraphs"`
}

// Clean strips positional metadata from the analysis result and serializes
// it without whitespace. Bounding regions collapse to the first region's
// page number; span and element cross-references are dropped.
//
// With SummarizeTables set, every table is summarized concurrently through
// the given Summarizer and the table entries are replaced by their
// summaries. A failed or nil summary drops that table from the output, not
// the whole batch.
func Clean(ctx context.Context, log *slog.Logger, result AnalyzeResult, opts CleanOptions, summarizer Summarizer) (CleanResult, error) {
	if log == nil {
		log = slog.Default()
	}

	doc := cleanedDocument{
		Content:    result.Content,
		Tables:     []json.RawMessage{},
		Paragraphs: []cleanedParagraph{},
	}

	if opts.KeepParagraphs {
		for _, p := range result.Paragraphs {
			doc.Paragraphs = append(doc.Paragraphs, cleanedParagraph{
				Role:       p.Role,
				Content:    p.Content,
				PageNumber: firstPage(p.BoundingRegions),
			})
		}
	}

	cleaned := CleanResult{}
	if opts.KeepTables {
		tables := make([]cleanedTable, 0, len(result.Tables))
		for _, t := range result.Tables {
			tables = append(tables, cleanTable(t))
		}
		if opts.SummarizeTables && summarizer != nil {
			summaries, originals := summarizeAll(ctx, log, tables, summarizer)
			cleaned.OriginalTables = originals
			for _, s := range summaries {
				raw, err := json.Marshal(s)
				if err != nil {
					return CleanResult{}, fmt.Errorf("encode table summary: %w", err)
				}
				doc.Tables = append(doc.Tables, raw)
			}
		} else {
			for _, t := range tables {
				raw, err := json.Marshal(t)
				if err != nil {
					return CleanResult{}, fmt.Errorf("encode table: %w", err)
				}
				doc.Tables = append(doc.Tables, raw)
			}
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return CleanResult{}, fmt.Errorf("encode cleaned document: %w", err)
	}
	cleaned.JSON = string(payload)
	return cleaned, nil
}

func cleanTable(t Table) cleanedTable {
	out := cleanedTable{
		RowCount:    t.RowCount,
		ColumnCount: t.ColumnCount,
		Cells:       make([]cleanedCell, 0, len(t.Cells)),
		PageNumber:  firstPage(t.BoundingRegions),
	}
	if t.Caption != nil {
		out.Caption = &cleanedCaption{Content: t.Caption.Content}
	}
	for _, cell := range t.Cells {
		out.Cells = append(out.Cells, cleanedCell{
			Kind:        cell.Kind,
			RowIndex:    cell.RowIndex,
			ColumnIndex: cell.ColumnIndex,
			RowSpan:     cell.RowSpan,
			ColumnSpan:  cell.ColumnSpan,
			Content:     cell.Content,
		})
	}
	return out
}

// summarizeAll fans out one summarization call per table and joins them all
// before returning. Order of surviving summaries follows the input tables.
func summarizeAll(ctx context.Context, log *slog.Logger, tables []cleanedTable, summarizer Summarizer) ([]TableSummary, map[string]string) {
	type slot struct {
		summary  *TableSummary
		original string
	}
	slots := make([]slot, len(tables))

	var wg sync.WaitGroup
	for i, table := range tables {
		raw, err := json.Marshal(table)
		if err != nil {
			log.Warn("skipping unencodable table", slog.Int("index", i), slog.Any("error", err))
			continue
		}
		slots[i].original = string(raw)
		wg.Add(1)
		go func(i int, tableJSON string) {
			defer wg.Done()
			summary, err := summarizer.SummarizeTable(ctx, tableJSON)
			if err != nil {
				log.Warn("table summarization failed", slog.Int("index", i), slog.Any("error", err))
				return
			}
			slots[i].summary = summary
		}(i, string(raw))
	}
	wg.Wait()

	summaries := make([]TableSummary, 0, len(tables))
	originals := make(map[string]string, len(tables))
	for i, s := range slots {
		if s.summary == nil {
			log.Warn("dropping table without summary", slog.Int("index", i))
			continue
		}
		summaries = append(summaries, *s.summary)
		originals[s.summary.TableID] = s.original
	}
	return summaries, originals
}

func firstPage(regions []BoundingRegion) int {
	if len(regions) == 0 {
		return 0
	}
	return regions[0].PageNumber
}
