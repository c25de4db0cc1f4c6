package genome

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// CommentPrefix marks header/comment lines in 23andMe style exports.
	CommentPrefix = "#"

	sniffSampleLines = 32
	readBufferSize   = 64 * 1024
	maxLineBytes     = 1 << 20
)

// Separator is the field delimiter chosen for a whole file.
type Separator int

const (
	SeparatorTab Separator = iota
	SeparatorComma
	SeparatorWhitespace
)

func (s Separator) String() string {
	switch s {
	case SeparatorTab:
		return "tab"
	case SeparatorComma:
		return "comma"
	default:
		return "whitespace"
	}
}

func (s Separator) split(line string) []string {
	switch s {
	case SeparatorTab:
		return strings.Split(line, "\t")
	case SeparatorComma:
		return strings.Split(line, ",")
	default:
		return strings.Fields(line)
	}
}

// Sniff picks the separator that turns the most sample lines into exactly
// four fields. Ties resolve in declaration order: tab, comma, whitespace.
func Sniff(sample []string) Separator {
	best, bestScore := SeparatorWhitespace, 0
	for _, sep := range []Separator{SeparatorTab, SeparatorComma, SeparatorWhitespace} {
		score := 0
		for _, line := range sample {
			if len(sep.split(line)) == 4 {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = sep, score
		}
	}
	return best
}

// Parse reads a raw genotype file into a MarkerTable.
// Malformed lines are skipped, including lines longer than maxLineBytes;
// ErrNoValidData is returned when nothing survives.
func Parse(r io.Reader) (MarkerTable, error) {
	br := bufio.NewReaderSize(r, readBufferSize)

	var (
		table   MarkerTable
		pending []string
		sep     Separator
		sniffed bool
		first   = true
		buf     []byte
	)
	for {
		raw, ok, err := readLine(br, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading genome: %w", err)
		}
		buf = raw
		line := string(raw)
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if !ok || isSkippable(line) {
			continue
		}
		if !sniffed {
			pending = append(pending, line)
			if len(pending) < sniffSampleLines {
				continue
			}
			sep, sniffed = Sniff(pending), true
			table = appendRows(table, pending, sep)
			pending = nil
			continue
		}
		if rec, ok := parseLine(line, sep); ok {
			table = append(table, rec)
		}
	}
	if !sniffed && len(pending) > 0 {
		table = appendRows(table, pending, Sniff(pending))
	}
	if len(table) == 0 {
		return nil, ErrNoValidData
	}
	return table, nil
}

// readLine returns the next line without its terminator, reusing buf.
// A line over maxLineBytes is consumed to its end and reported with ok false.
func readLine(br *bufio.Reader, buf []byte) (line []byte, ok bool, err error) {
	buf, ok = buf[:0], true
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && (len(buf) > 0 || !ok) {
				return buf, ok, nil
			}
			return buf, ok, err
		}
		if ok {
			if len(buf)+len(chunk) > maxLineBytes {
				buf, ok = buf[:0], false
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return buf, ok, nil
		}
	}
}

func isSkippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix)
}

func appendRows(table MarkerTable, lines []string, sep Separator) MarkerTable {
	for _, line := range lines {
		if rec, ok := parseLine(line, sep); ok {
			table = append(table, rec)
		}
	}
	return table
}

func parseLine(line string, sep Separator) (MarkerRecord, bool) {
	fields := sep.split(line)
	if len(fields) != 4 {
		return MarkerRecord{}, false
	}
	rsid := strings.TrimSpace(fields[0])
	// column header row, not a marker
	if rsid == "" || strings.EqualFold(rsid, "rsid") {
		return MarkerRecord{}, false
	}
	return MarkerRecord{
		RSID:       rsid,
		Chromosome: fields[1],
		Position:   fields[2],
		Genotype:   strings.TrimSpace(fields[3]),
	}, true
}
