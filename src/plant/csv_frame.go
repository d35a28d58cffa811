package plant

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"windfarm-observer/src/timeseries"
)

var delimiterCandidates = []rune{';', ',', '\t', '|'}

// -----------------------------------------------------------------------------

// ReadCSVFile parses a delimited file into a Frame of string cells.
// Only the named columns are kept when keep is non-empty.
func ReadCSVFile(path string, delimiter rune, keep []string) (*timeseries.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, delimiter, keep)
}

// -----------------------------------------------------------------------------

// ReadCSV parses delimited text. When the header line does not contain the
// preferred delimiter the most frequent candidate is used instead.
func ReadCSV(r io.Reader, delimiter rune, keep []string) (*timeseries.Frame, error) {
	br := bufio.NewReader(r)
	headerLine, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	first := string(headerLine)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(first, delimiter)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return timeseries.NewFrame(0), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	wanted := make(map[string]bool, len(keep))
	for _, k := range keep {
		if k != "" {
			wanted[k] = true
		}
	}

	names := make([]string, 0, len(header))
	positions := make([]int, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		names = append(names, name)
		positions = append(positions, i)
	}

	cells := make([][]any, len(names))
	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+2, err)
		}
		for c, pos := range positions {
			if pos < len(record) {
				cells[c] = append(cells[c], strings.Clone(record[pos]))
			} else {
				cells[c] = append(cells[c], nil)
			}
		}
		rows++
	}

	frame := timeseries.NewFrame(rows)
	for c, name := range names {
		if err := frame.AddColumn(name, cells[c]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// -----------------------------------------------------------------------------

func detectDelimiter(header string, preferred rune) rune {
	if preferred != 0 && strings.ContainsRune(header, preferred) {
		return preferred
	}
	best, bestCount := preferred, 0
	for _, c := range delimiterCandidates {
		if n := strings.Count(header, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	if best == 0 {
		return ','
	}
	return best
}
