// Package mapping loads the operator-supplied mapping file that associates
// data file names with a display name, a color and an explicit track order.
//
// Each line of the file is split on commas with no quote handling:
//
//	<order>,<file name>,<display name>,<color>[,<extra>...]
//
// The file name is the lookup key. A later row with the same file name
// replaces an earlier one.
package mapping

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// minFields is the number of leading columns every row must carry.
const minFields = 4

// ErrMalformedRow is returned when a row has too few fields or a
// non-integer order token.
var ErrMalformedRow = errors.New("malformed mapping row")

// Entry is a single row of the mapping file.
type Entry struct {
	Order       int
	FileName    string
	DisplayName string
	Color       string
	// Fields holds the raw row, including any trailing columns.
	Fields []string
}

// Table maps data file names to their mapping entries.
type Table struct {
	entries map[string]*Entry
	// keys preserves the position at which each file name was first seen.
	keys []string
}

// Load reads and parses the mapping file at path.
func Load(fsys afero.Fs, path string) (*Table, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file %s: %w", path, err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}
	return table, nil
}

// Parse reads comma-delimited rows from r.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{entries: make(map[string]*Entry)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if text == "" {
			continue
		}

		entry, err := parseRow(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.put(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return t, nil
}

func parseRow(text string) (*Entry, error) {
	fields := strings.Split(text, ",")
	if len(fields) < minFields {
		return nil, fmt.Errorf("%w: expected at least %d fields, got %d", ErrMalformedRow, minFields, len(fields))
	}

	order, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: order token %q is not an integer", ErrMalformedRow, fields[0])
	}

	return &Entry{
		Order:       order,
		FileName:    fields[1],
		DisplayName: fields[2],
		Color:       fields[3],
		Fields:      fields,
	}, nil
}

func (t *Table) put(e *Entry) {
	if _, ok := t.entries[e.FileName]; !ok {
		t.keys = append(t.keys, e.FileName)
	}
	t.entries[e.FileName] = e
}

// Lookup returns the entry for a data file name.
func (t *Table) Lookup(fileName string) (*Entry, bool) {
	e, ok := t.entries[fileName]
	return e, ok
}

// Len returns the number of distinct file names in the table.
func (t *Table) Len() int {
	return len(t.keys)
}

// Ranking orders display names by their integer order token.
type Ranking struct {
	names []string
	first map[string]int
}

// Ranking computes the display-name order once for the whole table. Rows
// sharing an order token keep the order in which their file names first
// appeared in the mapping file.
func (t *Table) Ranking() *Ranking {
	entries := make([]*Entry, 0, len(t.keys))
	for _, k := range t.keys {
		entries = append(entries, t.entries[k])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})

	r := &Ranking{
		names: make([]string, len(entries)),
		first: make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		r.names[i] = e.DisplayName
		if _, seen := r.first[e.DisplayName]; !seen {
			r.first[e.DisplayName] = i
		}
	}
	return r
}

// Rank returns the position of the first occurrence of displayName, or -1
// when the name is not in the table.
func (r *Ranking) Rank(displayName string) int {
	if i, ok := r.first[displayName]; ok {
		return i
	}
	return -1
}

// Names returns the display names in ranked order.
func (r *Ranking) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
