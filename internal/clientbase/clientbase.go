// Package clientbase reads the client list used to suggest task names.
package clientbase

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sandeepkv93/tasklog/internal/model"
)

const (
	DefaultSearchLimit = 5
	DefaultPresetLimit = 50
)

// NameColumns are tried in order; the first non-empty one names the client.
var NameColumns = []string{
	"Client Name",
	"ClientName",
	"client name",
	"client_name",
	"Client",
	"Name",
	"Company",
}

type Kind string

const (
	KindClient   Kind = "client"
	KindInternal Kind = "internal"
)

type Match struct {
	Name string
	Kind Kind
}

type Clientbase struct {
	names []string
}

// Load reads a CSV file with a header row. An empty path yields an empty
// clientbase; a missing file is an error.
func Load(path string) (*Clientbase, error) {
	if strings.TrimSpace(path) == "" {
		return &Clientbase{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return &Clientbase{}, fmt.Errorf("clientbase: open %s: %w", path, err)
	}
	defer f.Close()
	cb, err := Parse(f)
	if err != nil {
		return &Clientbase{}, fmt.Errorf("clientbase: %s: %w", path, err)
	}
	return cb, nil
}

func Parse(r io.Reader) (*Clientbase, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Clientbase{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	cb := &Clientbase{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if name := clientName(index, record); name != "" {
			cb.names = append(cb.names, name)
		}
	}
	return cb, nil
}

func clientName(index map[string]int, record []string) string {
	for _, col := range NameColumns {
		i, ok := index[col]
		if !ok || i >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[i]); v != "" {
			return v
		}
	}
	return ""
}

func (c *Clientbase) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Search returns clients whose name contains query (case-insensitive)
// followed by matching internal labels, at most limit results.
func (c *Clientbase) Search(query string, limit int) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out := make([]Match, 0, limit)
	if c != nil {
		for _, name := range c.names {
			if len(out) == limit {
				return out
			}
			if strings.Contains(strings.ToLower(name), q) {
				out = append(out, Match{Name: name, Kind: KindClient})
			}
		}
	}
	for _, label := range model.NonBillableTasks {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(label), q) {
			out = append(out, Match{Name: label, Kind: KindInternal})
		}
	}
	return out
}

// Presets lists the internal labels then unique client names, at most limit.
func (c *Clientbase) Presets(limit int) []string {
	if limit <= 0 {
		limit = DefaultPresetLimit
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	add := func(name string) {
		if len(out) == limit {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, label := range model.NonBillableTasks {
		add(label)
	}
	if c != nil {
		for _, name := range c.names {
			add(name)
		}
	}
	return out
}
