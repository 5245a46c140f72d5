package docx

// Table is a grid of plain-text cells styled with the template's TableGrid
// style. Column widths are left to Word's autofit layout.
type Table struct {
	cols  int
	cells [][]*Paragraph
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.cells) }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.cols }

// Cell returns the paragraph held by the cell at row r, column c.
func (t *Table) Cell(r, c int) *Paragraph { return t.cells[r][c] }

// AddTable appends a table holding rows of plain-text cells. Short rows are
// padded with empty cells. Header cells (first row) are bold when header is
// true.
func (d *Document) AddTable(rows [][]string, header bool) *Table {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	cols = max(cols, 1)

	gt := d.root.AddTable()
	gt.Style("TableGrid")
	t := &Table{cols: cols}
	for ri, r := range rows {
		row := gt.AddRow()
		cells := make([]*Paragraph, 0, cols)
		for ci := 0; ci < cols; ci++ {
			// Every w:tc needs at least one paragraph.
			p := &Paragraph{p: row.AddCell().AddEmptyPara()}
			if ci < len(r) && r[ci] != "" {
				run := p.AddRun(r[ci])
				if header && ri == 0 {
					run.SetBold(true)
				}
			}
			cells = append(cells, p)
		}
		t.cells = append(t.cells, cells)
	}

	d.stats.Tables++
	return t
}
