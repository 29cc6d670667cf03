package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vk/vesselbatch/internal/catalog"
	"github.com/vk/vesselbatch/internal/mode"
)

const (
	// StatusQueued is the pending marker written by InitializeQueue.
	StatusQueued = "Queued..."
	// ProgressNeedsCatalog is shown in the regions column until a catalog is
	// loaded.
	ProgressNeedsCatalog = "Load catalog!"
)

// ErrRowOutOfRange is returned by SetStatus for an index outside the current
// rows.
var ErrRowOutOfRange = errors.New("row index out of range")

// Row is a read-only view of one registry row.
type Row struct {
	Index   int
	Column1 string
	Column2 string
	Status  string
	// Progress is the "regions processed" cell; only used by the
	// annotation schema.
	Progress string
}

// Entry is one unit of work in a run snapshot.
type Entry struct {
	Row     int
	Column1 string
	Column2 string
}

// Registry holds the loaded files for a batch. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	schema   mode.Schema
	column1  []string
	column2  []string
	status   []string
	progress []string
}

// New creates an empty registry laid out for schema.
func New(schema mode.Schema) *Registry {
	return &Registry{schema: schema}
}

// Schema returns the schema the registry is laid out for.
func (r *Registry) Schema() mode.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schema
}

// Reset clears every row and switches to a new schema. Files loaded under one
// schema are not meaningful under another.
func (r *Registry) Reset(schema mode.Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schema = schema
	r.clearLocked()
}

// AppendColumn1 extends the primary column. Rows are created as needed.
func (r *Registry) AppendColumn1(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.column1 = append(r.column1, paths...)
	r.growLocked()
}

// AppendColumn2 extends the paired column. Rows are created as needed.
func (r *Registry) AppendColumn2(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.column2 = append(r.column2, paths...)
	r.growLocked()
}

// Remove deletes the row at index from both columns and compacts the table.
// It returns false, leaving the registry unchanged, if index is out of range.
func (r *Registry) Remove(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.status) {
		return false
	}
	if index < len(r.column1) {
		r.column1 = deleteAt(r.column1, index)
	}
	if index < len(r.column2) {
		r.column2 = deleteAt(r.column2, index)
	}
	r.status = deleteAt(r.status, index)
	r.progress = deleteAt(r.progress, index)
	return true
}

// Clear empties both columns and all statuses.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

// SetStatus writes the status cell of a row. The optional extra value is
// written into the regions processed cell when the schema has one.
func (r *Registry) SetStatus(index int, status string, extra ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.status) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrRowOutOfRange, index, len(r.status))
	}
	r.status[index] = status
	if len(extra) > 0 && r.schema.HasProgressColumn() {
		r.progress[index] = extra[0]
	}
	return nil
}

// InitializeQueue marks every row as queued. Under the annotation schema the
// regions cell is reset to "0/<regions>", or to a prompt when cat is empty.
func (r *Registry) InitializeQueue(cat *catalog.Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()

	progress := ""
	if r.schema.HasProgressColumn() {
		progress = ProgressNeedsCatalog
		if !cat.Empty() {
			progress = fmt.Sprintf("0/%d", cat.Len())
		}
	}
	for i := range r.status {
		r.status[i] = StatusQueued
		r.progress[i] = progress
	}
}

// Len returns the number of rows.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.status)
}

// Column1 returns a copy of the primary column.
func (r *Registry) Column1() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.column1...)
}

// Column2 returns a copy of the paired column.
func (r *Registry) Column2() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.column2...)
}

// Rows returns a copy of every row.
func (r *Registry) Rows() []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]Row, len(r.status))
	for i := range rows {
		rows[i] = Row{Index: i, Status: r.status[i], Progress: r.progress[i]}
		if i < len(r.column1) {
			rows[i].Column1 = r.column1[i]
		}
		if i < len(r.column2) {
			rows[i].Column2 = r.column2[i]
		}
	}
	return rows
}

// Snapshot copies the rows that have a primary file. The result shares no
// memory with the registry, so later mutations do not affect a running
// session.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, len(r.column1))
	for i, p := range r.column1 {
		entries[i] = Entry{Row: i, Column1: p}
		if i < len(r.column2) {
			entries[i].Column2 = r.column2[i]
		}
	}
	return entries
}

func (r *Registry) clearLocked() {
	r.column1 = nil
	r.column2 = nil
	r.status = nil
	r.progress = nil
}

// growLocked extends the status cells to max(len(column1), len(column2)).
func (r *Registry) growLocked() {
	rows := max(len(r.column1), len(r.column2))
	for len(r.status) < rows {
		r.status = append(r.status, "")
		r.progress = append(r.progress, "")
	}
}

func deleteAt(s []string, i int) []string {
	return append(s[:i:i], s[i+1:]...)
}
