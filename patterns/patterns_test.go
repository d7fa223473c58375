package patterns

import (
	"strings"
	"testing"
)

func TestDefaultTables(t *testing.T) {
	tables := Default()

	if len(tables.Interchangeable) == 0 {
		t.Fatal("expected built-in interchangeable groups")
	}
	if len(tables.DomainKeywords) == 0 {
		t.Fatal("expected built-in domain keywords")
	}
	if len(tables.SemanticTypes) == 0 {
		t.Fatal("expected built-in semantic type patterns")
	}

	groups := tables.Groups("technology")
	if groups == nil {
		t.Fatal("expected technology groups")
	}
	alts, ok := groups["implementation"]
	if !ok {
		t.Fatal("expected an implementation group in technology")
	}
	if len(alts) != 4 {
		t.Errorf("implementation alternatives = %d, want 4", len(alts))
	}
}

func TestGroupsCaseInsensitiveDomain(t *testing.T) {
	tables := Default()

	upper := tables.Groups("TECHNOLOGY")
	lower := tables.Groups("technology")
	if len(upper) != len(lower) || len(upper) == 0 {
		t.Errorf("Groups should ignore domain case: upper=%d lower=%d", len(upper), len(lower))
	}

	if kws := tables.Keywords("Medical"); len(kws) == 0 {
		t.Error("Keywords should ignore domain case")
	}
}

func TestGroupsUnknownDomain(t *testing.T) {
	tables := Default()
	if groups := tables.Groups("astrology"); groups != nil {
		t.Errorf("expected nil groups for unknown domain, got %v", groups)
	}
	if kws := tables.Keywords("astrology"); kws != nil {
		t.Errorf("expected nil keywords for unknown domain, got %v", kws)
	}
}

func TestSemanticTypeOrder(t *testing.T) {
	tables := Default()
	if tables.SemanticTypes[0].Type != "technical_term" {
		t.Errorf("first semantic type = %q, want technical_term", tables.SemanticTypes[0].Type)
	}
}

func TestLoad(t *testing.T) {
	yamlDoc := `
interchangeable:
  gaming:
    level: [stage, map, zone]
domain_keywords:
  gaming: [level, player, score]
semantic_types:
  - type: entity
    patterns: [player, enemy]
`
	tables, err := Load(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	groups := tables.Groups("gaming")
	if groups == nil {
		t.Fatal("expected gaming groups")
	}
	if len(groups["level"]) != 3 {
		t.Errorf("level alternatives = %d, want 3", len(groups["level"]))
	}
	if len(tables.Keywords("gaming")) != 3 {
		t.Errorf("gaming keywords = %d, want 3", len(tables.Keywords("gaming")))
	}
}

func TestLoadRejectsEmpty(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: ""},
		{name: "no tables", doc: "semantic_types: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.doc)); err == nil {
				t.Error("Load() expected error for empty tables")
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load(strings.NewReader("interchangeable: [not a map")); err == nil {
		t.Error("Load() expected error for malformed YAML")
	}
}
