// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nlpodyssey/echoviz/grid"
)

// WriteCSV writes one CSV record per Grid row, with values in their
// shortest exact representation.
func WriteCSV(w io.Writer, g grid.Grid) error {
	cw := csv.NewWriter(w)
	var record []string
	for i, row := range g {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
