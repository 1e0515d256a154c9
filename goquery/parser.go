// Package goquery implements heads.Parser on top of goquery selections.
package goquery

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/heads"
	"golang.org/x/net/html"
)

// TableSelector selects the table the store is built from.
const TableSelector = "table.wikitable"

// Ensure Parser implements heads.Parser at compile time.
var _ heads.Parser = (*Parser)(nil)

// Parser walks the rows of the first wikitable of a page and assembles the
// leaders of each state.
type Parser struct {
	extractor *Extractor
	logger    *slog.Logger
}

// NewParser creates a new Parser. A nil logger discards diagnostics.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{
		extractor: NewExtractor(logger),
		logger:    logger,
	}
}

// Parse implements heads.Parser.
func (p *Parser) Parse(src string) (*heads.Store, error) {
	doc, err := newDocument(src)
	if err != nil {
		return nil, err
	}

	store := heads.NewStore()

	table := FindTable(doc)
	if table.Length() == 0 {
		p.logger.Warn("no table found", "selector", TableSelector)
		return store, nil
	}

	rows := tableRows(table)
	p.logger.Debug("table found", "rows", rows.Length())

	w := &walk{
		extractor: p.extractor,
		logger:    p.logger,
		asm:       heads.NewAssembler(store),
	}

	var walkErr error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		// Header row.
		if i == 0 {
			return true
		}
		walkErr = w.row(i, row)
		return walkErr == nil
	})
	if walkErr != nil {
		p.logger.Error("parsing cancelled", "err", walkErr)
		return store, walkErr
	}

	if err := w.asm.Commit(); err != nil {
		return store, err
	}
	return store, nil
}

// FindTable returns the first table matching TableSelector.
func FindTable(doc *goquery.Document) *goquery.Selection {
	return doc.Find(TableSelector).First()
}

// TableHTML returns the markup of the first table matching TableSelector.
// Returns ENOTFOUND if the page has no such table.
func TableHTML(src string) (string, error) {
	doc, err := newDocument(src)
	if err != nil {
		return "", err
	}
	table := FindTable(doc)
	if table.Length() == 0 {
		return "", heads.Errorf(heads.ENOTFOUND, "no table matching %q", TableSelector)
	}
	return renderNode(table.Get(0))
}

func newDocument(src string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, heads.Errorf(heads.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// tableRows returns the rows of table, excluding rows of nested tables.
func tableRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.Closest("table").IsSelection(table)
	})
}

// walk holds the state carried from one row to the next.
type walk struct {
	extractor *Extractor
	logger    *slog.Logger
	asm       *heads.Assembler
	counters  heads.SpanCounters
}

func (w *walk) row(i int, row *goquery.Selection) error {
	cells := row.ChildrenFiltered("td, th")
	attrs := make([]heads.CellAttrs, cells.Length())
	cells.Each(func(j int, cell *goquery.Selection) {
		attrs[j] = heads.CellAttrs{
			RowSpan: cell.AttrOr("rowspan", ""),
			ColSpan: cell.AttrOr("colspan", ""),
		}
	})

	w.logger.Debug("processing row",
		"row", i,
		"cells", len(attrs),
		"spans", [3]int(w.counters),
	)

	plan, err := heads.ResolveRow(w.counters, attrs)
	for _, d := range plan.Diagnostics {
		w.logger.Log(context.Background(), d.Level, d.Msg,
			"row", i,
			"column", d.Column.String(),
			"value", d.Value,
			"state", w.asm.State().Name,
		)
	}
	if err != nil {
		return heads.Errorf(heads.EMALFORMED, "row %d: %s", i, heads.ErrorMessage(err))
	}
	w.counters = plan.Counters

	for _, a := range plan.Assignments {
		cell := cells.Eq(a.Cell)
		if a.Role == heads.RoleState {
			if err := w.beginState(i, cell); err != nil {
				return err
			}
			continue
		}

		leaders := w.extractor.Extract(cell, w.asm.State().Name)
		w.logger.Debug("cell resolved",
			"row", i,
			"role", string(a.Role),
			"leaders", len(leaders),
		)
		w.asm.Append(a.Role, leaders)
	}
	return nil
}

// beginState handles a state boundary: the previous state is committed and
// the identity is taken from the cell's only link.
func (w *walk) beginState(i int, cell *goquery.Selection) error {
	if w.asm.Started() && w.asm.State().Name == "" {
		return heads.Errorf(heads.EMALFORMED, "row %d: state name missing for preceding rows", i)
	}
	if err := w.asm.Commit(); err != nil {
		return err
	}

	links := cell.Find("a")
	if links.Length() != 1 {
		w.logger.Warn("state cell must hold exactly one link",
			"row", i,
			"links", links.Length(),
			"html", innerHTML(cell),
		)
		w.asm.ResetIdentity("", "")
		return nil
	}

	name := strings.TrimSpace(links.Text())
	w.logger.Debug("new state", "row", i, "state", name)
	w.asm.ResetIdentity(name, links.AttrOr("href", ""))
	return nil
}

func innerHTML(sel *goquery.Selection) string {
	s, err := sel.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func outerHTML(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	s, err := renderNode(sel.Get(0))
	if err != nil {
		return ""
	}
	return s
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
