package vm

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/width"
)

// cellsPerRow and cellWidth match §6's observability contract exactly:
// "cells grouped ten per row, each cell right-padded to four characters".
const (
	cellsPerRow = 10
	cellWidth   = 4
)

// Dump renders the live prefix of the heap (index 0 through the free
// pointer) as a paged, fixed-width text table, per §6. pageSize is the
// number of rows per page; a non-positive pageSize renders everything
// on one page.
func (h *Heap) Dump(w io.Writer, pageSize int) error {
	n := int(h.FreePointer())
	rows := (n + cellsPerRow - 1) / cellsPerRow
	if pageSize <= 0 {
		pageSize = rows
	}
	for page := 0; page*pageSize < rows || (rows == 0 && page == 0); page++ {
		start := page * pageSize
		end := start + pageSize
		if end > rows {
			end = rows
		}
		if start >= end && rows > 0 {
			break
		}
		if _, err := fmt.Fprintf(w, "-- page %d --\n", page+1); err != nil {
			return err
		}
		for row := start; row < end; row++ {
			base := row * cellsPerRow
			if _, err := fmt.Fprintf(w, "%08x  ", base); err != nil {
				return err
			}
			for col := 0; col < cellsPerRow; col++ {
				idx := base + col
				if idx >= n {
					if _, err := io.WriteString(w, padCell("")); err != nil {
						return err
					}
					continue
				}
				c, err := h.Read(Ref(idx))
				if err != nil {
					return err
				}
				if _, err := io.WriteString(w, padCell(strconv.FormatUint(uint64(c), 16))); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if end >= rows {
			break
		}
	}
	return nil
}

// padCell right-pads s to cellWidth display columns, using
// golang.org/x/text/width so a cell holding a full-width glyph (from a
// future non-ASCII rendering mode) still occupies its four columns
// correctly rather than four runes.
func padCell(s string) string {
	visible := width.String(s)
	pad := cellWidth - runeDisplayWidth(visible)
	if pad < 0 {
		pad = 0
	}
	out := visible
	for i := 0; i < pad; i++ {
		out += " "
	}
	return out + " "
}

func runeDisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		if width.LookupRune(r).Kind() == width.EastAsianWide || width.LookupRune(r).Kind() == width.EastAsianFullwidth {
			n += 2
		} else {
			n++
		}
	}
	return n
}
