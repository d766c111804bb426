package parser

import (
	"testing"

	"github.com/helpline-labs/refdesk/internal/domain/intent"
)

func TestParse_EntityTypeHint(t *testing.T) {
	p := New(DefaultVocabulary())

	tests := []struct {
		query string
		want  string
	}{
		{"wifi password for Contoso", "password"},
		{"which servers are down", "server"},
		{"printer setup guide", "printer"},
		{"vpn access", ""},
		{"credentials for the mail host", "password"},
	}
	for _, tt := range tests {
		it := p.Parse(tt.query)
		if it.EntityType() != tt.want {
			t.Errorf("Parse(%q).EntityType() = %q, want %q", tt.query, it.EntityType(), tt.want)
		}
	}
}

func TestParse_TargetNameAfterMarker(t *testing.T) {
	p := New(DefaultVocabulary())
	it := p.Parse("wifi password for Contoso Ltd")
	if it.TargetName() != "Contoso Ltd" {
		t.Errorf("expected target 'Contoso Ltd', got %q", it.TargetName())
	}
	if it.EntityType() != "password" {
		t.Errorf("expected entity type password, got %q", it.EntityType())
	}
}

func TestParse_ConflictRecordsDiscardedType(t *testing.T) {
	p := New(DefaultVocabulary())
	it := p.Parse("server password for Contoso")
	// Left-to-right priority: "server" wins, "password" is recorded.
	if it.EntityType() != "server" {
		t.Errorf("expected first keyword to win, got %q", it.EntityType())
	}
	conflict, ok := it.Filter(intent.ConflictKey)
	if !ok {
		t.Fatal("expected conflict filter to be set")
	}
	if conflict != "password" {
		t.Errorf("expected discarded type 'password', got %q", conflict)
	}
}

func TestParse_SameTypeTwiceIsNotAConflict(t *testing.T) {
	p := New(DefaultVocabulary())
	it := p.Parse("password credentials rotation")
	if it.EntityType() != "password" {
		t.Errorf("expected password, got %q", it.EntityType())
	}
	if _, ok := it.Filter(intent.ConflictKey); ok {
		t.Error("synonyms of the same type must not record a conflict")
	}
}

func TestParse_TimeFilter(t *testing.T) {
	p := New(DefaultVocabulary())
	it := p.Parse("latest runbook for Initech")
	if v, ok := it.Filter("time"); !ok || v != "recent" {
		t.Errorf("expected time=recent, got %q (set=%v)", v, ok)
	}
	if it.EntityType() != "document" {
		t.Errorf("expected document, got %q", it.EntityType())
	}
}

func TestParse_Residual(t *testing.T) {
	p := New(DefaultVocabulary())
	it := p.Parse("how do I reset the printer at Globex")
	if it.EntityType() != "printer" {
		t.Errorf("expected printer, got %q", it.EntityType())
	}
	if it.TargetName() != "Globex" {
		t.Errorf("expected target Globex, got %q", it.TargetName())
	}
	if it.Residual() != "how do I reset the" {
		t.Errorf("unexpected residual %q", it.Residual())
	}
}

func TestParse_EmptyQuery(t *testing.T) {
	p := New(DefaultVocabulary())
	it := p.Parse("")
	if it.EntityType() != "" || it.TargetName() != "" || it.Residual() != "" {
		t.Errorf("expected all-empty intent, got %+v", it)
	}
	if it.Category() != "general" {
		t.Errorf("expected general category, got %q", it.Category())
	}
}

func TestParse_Deterministic(t *testing.T) {
	p := New(DefaultVocabulary())
	q := "server password for Contoso yesterday"
	a := p.Parse(q)
	b := p.Parse(q)
	if a.EntityType() != b.EntityType() || a.TargetName() != b.TargetName() ||
		a.Residual() != b.Residual() {
		t.Error("parsing is not deterministic")
	}
	af, bf := a.Filters(), b.Filters()
	if len(af) != len(bf) {
		t.Fatalf("filter count differs: %d vs %d", len(af), len(bf))
	}
	for k, v := range af {
		if bf[k] != v {
			t.Errorf("filter %q differs: %q vs %q", k, v, bf[k])
		}
	}
}

func TestParse_Category(t *testing.T) {
	p := New(DefaultVocabulary())
	if got := p.Parse("wifi password").Category(); got != "password" {
		t.Errorf("expected password category, got %q", got)
	}
	if got := p.Parse("something unrelated").Category(); got != "general" {
		t.Errorf("expected general category, got %q", got)
	}
}
