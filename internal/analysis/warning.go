package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// IntegrityWarning reports references that could not be resolved during a
// join. The affected rows are excluded from that one query only; the
// returned result is still valid.
type IntegrityWarning struct {
	Query        string
	Column       string
	MissingIDs   []string
	ExcludedRows int
}

func (w *IntegrityWarning) Error() string {
	ids := w.MissingIDs
	more := ""
	if len(ids) > 5 {
		more = fmt.Sprintf(" (+%d more)", len(ids)-5)
		ids = ids[:5]
	}
	return fmt.Sprintf("%s: %d rows reference unknown %s [%s]%s",
		w.Query, w.ExcludedRows, w.Column, strings.Join(ids, ", "), more)
}

// unresolved collects unknown ids for one query.
type unresolved struct {
	query  string
	column string
	ids    map[string]struct{}
	rows   int
}

func newUnresolved(query, column string) *unresolved {
	return &unresolved{query: query, column: column, ids: map[string]struct{}{}}
}

func (u *unresolved) add(id string) {
	u.ids[id] = struct{}{}
	u.rows++
}

// warning returns nil when every reference resolved.
func (u *unresolved) warning() *IntegrityWarning {
	if u.rows == 0 {
		return nil
	}
	ids := make([]string, 0, len(u.ids))
	for id := range u.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &IntegrityWarning{Query: u.query, Column: u.column, MissingIDs: ids, ExcludedRows: u.rows}
}
