package selection

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/dex/internal/project"
)

func scenarioProjects() []project.Record {
	return []project.Record{
		{Name: "App One", Language: "GO", Directory: "/home/u/code/app1"},
		{Name: "app2", Language: "UNKNOWN", Directory: "/home/u/code/app2"},
	}
}

func TestNewIdentityOrder(t *testing.T) {
	e := New(scenarioProjects())
	if diff := cmp.Diff([]int{0, 1}, e.Filtered()); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
	if e.Cursor() != 0 || e.Searching() || e.Query() != "" {
		t.Fatalf("unexpected initial state: cursor=%d searching=%v query=%q", e.Cursor(), e.Searching(), e.Query())
	}
}

func TestEmptyEngineRejectsCommit(t *testing.T) {
	e := New(nil)
	if e.Cursor() != -1 {
		t.Fatalf("expected no cursor, got %d", e.Cursor())
	}
	e.Advance()
	e.Retreat()
	if _, ok := e.Commit(); ok {
		t.Fatalf("commit must be rejected on an empty list")
	}
	if effect := e.Handle(Key{Kind: KeyEnter}); effect != EffectCommit {
		t.Fatalf("enter should still report commit, got %v", effect)
	}
}

func TestAdvanceRetreatWrap(t *testing.T) {
	e := New([]project.Record{
		{Name: "a", Directory: "/a"},
		{Name: "b", Directory: "/b"},
		{Name: "c", Directory: "/c"},
	})
	e.Retreat()
	if e.Cursor() != 2 {
		t.Fatalf("retreat from first should wrap to last, got %d", e.Cursor())
	}
	e.Advance()
	if e.Cursor() != 0 {
		t.Fatalf("advance from last should wrap to first, got %d", e.Cursor())
	}
	e.Advance()
	e.Advance()
	if e.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", e.Cursor())
	}
}

func TestQueryRanksApp1First(t *testing.T) {
	e := New(scenarioProjects())
	e.Advance()
	for _, key := range keys("/app1") {
		e.Handle(key)
	}
	if e.Query() != "app1" || !e.Searching() {
		t.Fatalf("unexpected search state: query=%q searching=%v", e.Query(), e.Searching())
	}
	filtered := e.Filtered()
	if len(filtered) == 0 || filtered[0] != 0 {
		t.Fatalf("expected app1 ranked first, got %v", filtered)
	}
	for _, idx := range filtered[1:] {
		if idx == 0 {
			t.Fatalf("app1 listed twice: %v", filtered)
		}
	}
	if e.Cursor() != 0 {
		t.Fatalf("cursor should move to app1, got %d", e.Cursor())
	}
	rec, ok := e.Commit()
	if !ok || rec.Directory != "/home/u/code/app1" {
		t.Fatalf("commit returned %+v, %v", rec, ok)
	}
}

func TestNoMatchLeavesNothingSelectable(t *testing.T) {
	e := New(scenarioProjects())
	e.EnterSearch()
	for _, r := range "zzz" {
		e.AppendToQuery(r)
	}
	if len(e.Filtered()) != 0 || e.Cursor() != -1 {
		t.Fatalf("expected empty filter, got %v cursor=%d", e.Filtered(), e.Cursor())
	}
	if _, ok := e.Commit(); ok {
		t.Fatalf("commit must be rejected when nothing matches")
	}
	e.RemoveLastFromQuery()
	e.RemoveLastFromQuery()
	e.RemoveLastFromQuery()
	if len(e.Filtered()) != 2 || e.Cursor() != 0 {
		t.Fatalf("clearing the query should restore identity order, got %v cursor=%d", e.Filtered(), e.Cursor())
	}
}

func TestExitSearchRestoresIdentity(t *testing.T) {
	e := New(scenarioProjects())
	e.Handle(Key{Kind: KeyRune, Rune: '/'})
	e.Handle(Key{Kind: KeyRune, Rune: '2'})
	if diff := cmp.Diff([]int{1}, e.Filtered()); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
	if effect := e.Handle(Key{Kind: KeyEsc}); effect != EffectExitSearch {
		t.Fatalf("esc in search should exit search, got %v", effect)
	}
	if e.Searching() || e.Query() != "" {
		t.Fatalf("expected search cleared")
	}
	if diff := cmp.Diff([]int{0, 1}, e.Filtered()); diff != "" {
		t.Fatalf("identity order not restored (-want +got):\n%s", diff)
	}
}

func TestEnterSearchKeepsQuery(t *testing.T) {
	e := New(scenarioProjects())
	e.EnterSearch()
	e.AppendToQuery('a')
	e.EnterSearch()
	if e.Query() != "a" {
		t.Fatalf("entering search again must keep the query, got %q", e.Query())
	}
}

func TestStableTieBreak(t *testing.T) {
	projects := []project.Record{
		{Name: "alpha", Directory: "/x/two"},
		{Name: "beta", Directory: "/x/abc"},
		{Name: "alpha", Directory: "/x/one"},
		{Name: "alpha", Directory: "/x/six"},
	}
	e := New(projects)
	for _, r := range "alpha" {
		e.AppendToQuery(r)
	}
	if diff := cmp.Diff([]int{0, 2, 3}, e.Filtered()); diff != "" {
		t.Fatalf("tied projects must keep input order (-want +got):\n%s", diff)
	}
}

func TestFilterMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := "abcdeio/-_ "
	var projects []project.Record
	for i := 0; i < 40; i++ {
		projects = append(projects, project.Record{
			Name:      randomString(rng, "abcdeio-_", 3+rng.Intn(8)),
			Directory: "/" + randomString(rng, "abcdeio/", 4+rng.Intn(12)),
		})
	}
	for trial := 0; trial < 200; trial++ {
		e := New(projects)
		e.EnterSearch()
		prev := len(e.Filtered())
		query := ""
		for step := 0; step < 5; step++ {
			r := rune(alphabet[rng.Intn(len(alphabet))])
			query += string(r)
			e.AppendToQuery(r)
			got := e.Filtered()
			if len(got) > prev {
				t.Fatalf("query %q widened the filter: %d > %d", query, len(got), prev)
			}
			for _, idx := range got {
				target := projects[idx].Name + " " + projects[idx].Directory
				if !isSubsequence(query, target) {
					t.Fatalf("project %q does not match query %q", target, query)
				}
			}
			if len(got) > 0 && e.Cursor() != got[0] {
				t.Fatalf("cursor %d should be the top match %d", e.Cursor(), got[0])
			}
			prev = len(got)
		}
	}
}

func keys(s string) []Key {
	var out []Key
	for _, r := range s {
		out = append(out, Key{Kind: KeyRune, Rune: r})
	}
	return out
}

func randomString(rng *rand.Rand, alphabet string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

func isSubsequence(query, target string) bool {
	q := []rune(strings.ToLower(query))
	i := 0
	for _, r := range target {
		if i < len(q) && unicode.ToLower(r) == q[i] {
			i++
		}
	}
	return i == len(q)
}
