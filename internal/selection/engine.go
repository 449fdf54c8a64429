// Package selection holds the picker's in-memory state: the project list, the
// live fuzzy-ranked view over it and the cursor.
//
// The engine is not safe for concurrent use; the render loop owns it.
package selection

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/kingrea/dex/internal/project"
)

// Engine is the selection state machine.
type Engine struct {
	projects []project.Record
	targets  []string

	query     []rune
	filtered  []int
	matched   map[int][]int
	cursor    int
	searching bool
}

// New starts an engine over projects with an empty query and identity order.
func New(projects []project.Record) *Engine {
	e := &Engine{
		projects: projects,
		targets:  make([]string, len(projects)),
	}
	for i, p := range projects {
		e.targets[i] = p.Name + " " + p.Directory
	}
	e.rerank()
	return e
}

// Len is the size of the full project list.
func (e *Engine) Len() int { return len(e.projects) }

// Project returns the record at index i of the full list.
func (e *Engine) Project(i int) project.Record { return e.projects[i] }

// Query returns the current search text.
func (e *Engine) Query() string { return string(e.query) }

// Searching reports whether typed keys edit the query.
func (e *Engine) Searching() bool { return e.searching }

// Mode derives the key-handling mode from the search flag.
func (e *Engine) Mode() Mode {
	if e.searching {
		return ModeSearching
	}
	return ModeNavigating
}

// Filtered returns the ranked indices into the full list. The slice must not
// be modified.
func (e *Engine) Filtered() []int { return e.filtered }

// Cursor returns the selected index into the full list, or -1 when nothing is
// selectable.
func (e *Engine) Cursor() int { return e.cursor }

// CursorPosition returns the cursor's position inside Filtered, or -1.
func (e *Engine) CursorPosition() int {
	for pos, idx := range e.filtered {
		if idx == e.cursor {
			return pos
		}
	}
	return -1
}

// MatchedIndexes returns the byte offsets of the query characters matched in
// project i's search text (name, a space, then the directory).
func (e *Engine) MatchedIndexes(i int) []int { return e.matched[i] }

// Advance moves the cursor to the next ranked project, wrapping around.
func (e *Engine) Advance() { e.step(1) }

// Retreat moves the cursor to the previous ranked project, wrapping around.
func (e *Engine) Retreat() { e.step(-1) }

func (e *Engine) step(delta int) {
	n := len(e.filtered)
	if n == 0 {
		return
	}
	pos := e.CursorPosition()
	if pos < 0 {
		e.cursor = e.filtered[0]
		return
	}
	e.cursor = e.filtered[((pos+delta)%n+n)%n]
}

// EnterSearch switches to search mode, keeping any existing query.
func (e *Engine) EnterSearch() { e.searching = true }

// ExitSearch leaves search mode and clears the query.
func (e *Engine) ExitSearch() {
	e.searching = false
	e.query = e.query[:0]
	e.rerank()
}

// AppendToQuery adds r to the query and re-ranks.
func (e *Engine) AppendToQuery(r rune) {
	e.query = append(e.query, r)
	e.rerank()
}

// RemoveLastFromQuery drops the last character of the query and re-ranks.
func (e *Engine) RemoveLastFromQuery() {
	if len(e.query) == 0 {
		return
	}
	e.query = e.query[:len(e.query)-1]
	e.rerank()
}

// Commit returns the project under the cursor. ok is false when the list or
// the current filter is empty.
func (e *Engine) Commit() (project.Record, bool) {
	if e.cursor < 0 || e.cursor >= len(e.projects) {
		return project.Record{}, false
	}
	return e.projects[e.cursor], true
}

// rerank recomputes the filtered order for the current query and moves the
// cursor to the top result.
func (e *Engine) rerank() {
	e.matched = nil
	if len(e.query) == 0 {
		e.filtered = make([]int, len(e.projects))
		for i := range e.projects {
			e.filtered[i] = i
		}
	} else {
		matches := fuzzy.Find(string(e.query), e.targets)
		// fuzzy.Find's own ordering is not stable for equal scores.
		sort.SliceStable(matches, func(a, b int) bool {
			if matches[a].Score != matches[b].Score {
				return matches[a].Score > matches[b].Score
			}
			return matches[a].Index < matches[b].Index
		})
		e.filtered = make([]int, len(matches))
		e.matched = make(map[int][]int, len(matches))
		for pos, m := range matches {
			e.filtered[pos] = m.Index
			e.matched[m.Index] = m.MatchedIndexes
		}
	}
	if len(e.filtered) == 0 {
		e.cursor = -1
		return
	}
	e.cursor = e.filtered[0]
}
