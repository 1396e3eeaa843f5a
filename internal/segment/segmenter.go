// Package segment turns one input file into an ordered sequence of
// text units sized for embedding.
package segment

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"docrag/internal/domain"
)

// Mode selects how plain-text files are split into candidates.
type Mode string

const (
	// ModeParagraph splits on blank-line boundaries.
	ModeParagraph Mode = "paragraph"
	// ModeLine splits on every line break.
	ModeLine Mode = "line"
)

// Units outside (MinUnitChars, MaxUnitChars) are dropped before
// batching: shorter ones are noise (headers, stray punctuation), longer
// ones exceed embedding input limits and produce unfocused vectors.
const (
	MinUnitChars = 20
	MaxUnitChars = 8000
)

var blankLineRe = regexp.MustCompile(`\r?\n\s*\r?\n`)

// Segmenter splits files into filtered, ordered units.
type Segmenter struct {
	mode     Mode
	minChars int
	maxChars int
}

func New(mode Mode, minChars, maxChars int) *Segmenter {
	if mode != ModeLine {
		mode = ModeParagraph
	}
	if minChars <= 0 {
		minChars = MinUnitChars
	}
	if maxChars <= 0 {
		maxChars = MaxUnitChars
	}
	return &Segmenter{mode: mode, minChars: minChars, maxChars: maxChars}
}

// Segment reads path and returns its qualifying units in file order,
// along with the number of candidates dropped by filtering. A file that
// parses but yields zero qualifying candidates returns an empty slice
// and no error; callers treat that as a skip.
func (s *Segmenter) Segment(path string) ([]domain.Unit, int, error) {
	var (
		candidates []string
		err        error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		candidates, err = s.textCandidates(path)
	case ".csv":
		candidates, err = csvCandidates(path)
	default:
		return nil, 0, fmt.Errorf("%s: extension %q: %w", path, ext, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, 0, err
	}

	var (
		units   []domain.Unit
		dropped int
	)
	for _, c := range candidates {
		text := strings.TrimSpace(c)
		if len(text) <= s.minChars || len(text) >= s.maxChars {
			if text != "" {
				dropped++
			}
			continue
		}
		units = append(units, domain.Unit{
			Text:       text,
			SourceFile: path,
			Index:      len(units),
		})
	}
	return units, dropped, nil
}

func (s *Segmenter) textCandidates(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapReadErr(path, err)
	}
	if s.mode == ModeLine {
		return strings.Split(string(data), "\n"), nil
	}
	return blankLineRe.Split(string(data), -1), nil
}

// csvCandidates forms one candidate per row by joining non-empty cell
// values with a single space.
func csvCandidates(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapReadErr(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: parse csv: %w", path, err)
		}
		var cells []string
		for _, cell := range record {
			if c := strings.TrimSpace(cell); c != "" {
				cells = append(cells, c)
			}
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows, nil
}

func wrapReadErr(path string, err error) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return fmt.Errorf("read %s: %w", path, err)
}
