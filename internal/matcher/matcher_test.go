package matcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/helpline-labs/refdesk/internal/domain/directory"
	"github.com/helpline-labs/refdesk/internal/domain/match"
)

func testEntries() []directory.Entry {
	return []directory.Entry{
		directory.New("Microsoft Corporation", "1", "org-a"),
		directory.New("Amazon Web Services", "2", "org-b"),
	}
}

func TestMatch_EmptyCandidates(t *testing.T) {
	m := New(DefaultConfig(), nil)
	if got := m.Match("anything", nil); len(got) != 0 {
		t.Fatalf("expected empty result for empty candidate set, got %d", len(got))
	}
	if got := m.Match("anything", []directory.Entry{}); len(got) != 0 {
		t.Fatalf("expected empty result for empty candidate slice, got %d", len(got))
	}
}

func TestMatch_EmptyInput(t *testing.T) {
	m := New(DefaultConfig(), nil)
	if got := m.Match("   ", testEntries()); len(got) != 0 {
		t.Fatalf("expected empty result for blank input, got %d", len(got))
	}
}

func TestMatch_Misspelling(t *testing.T) {
	m := New(DefaultConfig(), nil)
	got := m.Match("Microsft", testEntries())
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	top := got[0]
	if top.MatchedName() != "Microsoft Corporation" {
		t.Errorf("expected Microsoft Corporation, got %s", top.MatchedName())
	}
	if top.Score() < 0.85 {
		t.Errorf("expected score >= 0.85, got %f", top.Score())
	}
	if top.MatchType() != match.TypeEditDistance {
		t.Errorf("expected edit-distance match, got %s", top.MatchType())
	}
	if top.EntityID() != "1" {
		t.Errorf("expected entity id 1, got %s", top.EntityID())
	}
}

func TestMatch_Acronym(t *testing.T) {
	m := New(DefaultConfig(), nil)
	got := m.Match("AWS", testEntries())
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	top := got[0]
	if top.MatchedName() != "Amazon Web Services" {
		t.Errorf("expected Amazon Web Services, got %s", top.MatchedName())
	}
	if top.Score() < 0.9 {
		t.Errorf("expected score >= 0.9, got %f", top.Score())
	}
	if top.MatchType() != match.TypeAcronym {
		t.Errorf("expected acronym match, got %s", top.MatchType())
	}
}

func TestMatch_ExactRankedFirst(t *testing.T) {
	entries := []directory.Entry{
		directory.New("Contoso Ltd", "1", "org-a"),
		directory.New("contoso", "2", "org-a"),
	}
	m := New(DefaultConfig(), nil)
	got := m.Match("Contoso", entries)
	if len(got) == 0 {
		t.Fatal("expected matches")
	}
	top := got[0]
	if top.MatchedName() != "contoso" {
		t.Errorf("expected case-insensitive exact match first, got %s", top.MatchedName())
	}
	if top.Score() != 1.0 {
		t.Errorf("expected exact score 1.0, got %f", top.Score())
	}
	if top.MatchType() != match.TypeExact {
		t.Errorf("expected exact match type, got %s", top.MatchType())
	}
}

func TestMatch_ScoresDescending(t *testing.T) {
	entries := []directory.Entry{
		directory.New("Globex", "1", "org-a"),
		directory.New("Globex Corporation", "2", "org-a"),
		directory.New("Glotex", "3", "org-a"),
		directory.New("Initech", "4", "org-b"),
	}
	m := New(DefaultConfig(), nil)
	got := m.Match("Globex", entries)
	for i := 1; i < len(got); i++ {
		if got[i].Score() > got[i-1].Score() {
			t.Errorf("scores not descending: [%d]=%f > [%d]=%f",
				i, got[i].Score(), i-1, got[i-1].Score())
		}
	}
}

func TestMatch_StableTieOrder(t *testing.T) {
	// Two identical names tie exactly; input order must be preserved.
	entries := []directory.Entry{
		directory.New("Acme", "first", "org-a"),
		directory.New("Acme", "second", "org-b"),
	}
	m := New(DefaultConfig(), nil)
	got := m.Match("Acme", entries)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].EntityID() != "first" || got[1].EntityID() != "second" {
		t.Errorf("tie order not stable: got %s, %s", got[0].EntityID(), got[1].EntityID())
	}
}

func TestMatch_ThresholdFiltersWeakCandidates(t *testing.T) {
	m := New(DefaultConfig(), nil)
	got := m.Match("zzzzzz", testEntries())
	if len(got) != 0 {
		t.Fatalf("expected no matches below threshold, got %d", len(got))
	}
}

func TestMatch_MaxResultsCap(t *testing.T) {
	entries := make([]directory.Entry, 0, 8)
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		entries = append(entries, directory.New("Acme", id, "org-a"))
	}
	cfg := DefaultConfig()
	cfg.MaxResults = 3
	m := New(cfg, nil)
	got := m.Match("Acme", entries)
	if len(got) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(got))
	}
}

func TestMatch_AliasDictionaryHit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := "msft: Microsoft Corporation\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}

	m := New(DefaultConfig(), aliases)
	got := m.Match("MSFT", testEntries())
	if len(got) == 0 {
		t.Fatal("expected alias hit")
	}
	top := got[0]
	if top.Score() != 1.0 {
		t.Errorf("alias hit must score 1.0, got %f", top.Score())
	}
	if top.MatchType() != match.TypeExact {
		t.Errorf("alias hit must be exact, got %s", top.MatchType())
	}
	if top.MatchedName() != "Microsoft Corporation" {
		t.Errorf("expected Microsoft Corporation, got %s", top.MatchedName())
	}
	if top.Original() != "MSFT" {
		t.Errorf("original input must be preserved, got %s", top.Original())
	}
}

func TestAliasTable_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	if err := os.WriteFile(path, []byte("msft: Microsoft Corporation\n"), 0o600); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if aliases.Len() != 1 {
		t.Fatalf("expected 1 alias, got %d", aliases.Len())
	}

	updated := "msft: Microsoft Corporation\ngoog: Google LLC\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite alias file: %v", err)
	}
	if err := aliases.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if aliases.Len() != 2 {
		t.Fatalf("expected 2 aliases after reload, got %d", aliases.Len())
	}
	if _, ok := aliases.Canonical("GOOG"); !ok {
		t.Error("expected case-insensitive lookup of reloaded alias")
	}
}

func TestAliasTable_ReloadKeepsSnapshotOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	if err := os.WriteFile(path, []byte("msft: Microsoft Corporation\n"), 0o600); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}

	if err := os.WriteFile(path, []byte(":\n\t- broken"), 0o600); err != nil {
		t.Fatalf("corrupt alias file: %v", err)
	}
	if err := aliases.Reload(); err == nil {
		t.Fatal("expected error for malformed alias file")
	}
	if _, ok := aliases.Canonical("msft"); !ok {
		t.Error("previous snapshot must survive a failed reload")
	}
}

func TestLoadAliases_EmptyPath(t *testing.T) {
	aliases, err := LoadAliases("")
	if err != nil {
		t.Fatalf("empty path must not error: %v", err)
	}
	if aliases.Len() != 0 {
		t.Errorf("expected empty table, got %d entries", aliases.Len())
	}
}
