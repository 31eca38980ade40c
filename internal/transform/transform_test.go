package transform

import (
	"reflect"
	"testing"

	"github.com/ppiankov/boycotts/internal/model"
)

func TestInferTags(t *testing.T) {
	tests := []struct {
		name     string
		category string
		calledBy string
		want     []string
	}{
		{"workers rights straight apostrophe", "Workers' Rights", "", []string{"Labor"}},
		{"workers rights curly apostrophe", "Workers’ Rights", "", []string{"Labor"}},
		{"human rights", "Human Rights", "", []string{"Israel"}},
		{"human rights by bds", "Human Rights", "BDS Movement", []string{"Israel"}},
		{"bds organizer only", "Palestine", "Palestinian BDS National Committee", []string{"Israel"}},
		{"bds lowercase organizer", "Other", "bds", []string{"Israel"}},
		{"environment", "Environment", "", []string{"Environment"}},
		{"climate", "Climate Change", "", []string{"Environment"}},
		{"animal", "Animal Rights", "", []string{"Animal-Testing"}},
		{"tax", "Tax Avoidance", "", []string{"Tax Avoidance"}},
		{"labor", "Labor Abuses", "", []string{"Labor"}},
		{"multiple", "Human Rights, Workers and Environment", "", []string{"Israel", "Labor", "Environment"}},
		{"default", "Arms Trade", "Campaign Against Arms Trade", []string{"Labor"}},
		{"empty", "", "", []string{"Labor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferTags(tt.category, tt.calledBy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InferTags(%q, %q) = %v, want %v", tt.category, tt.calledBy, got, tt.want)
			}
		})
	}
}

func TestInferTags_Deterministic(t *testing.T) {
	first := InferTags("Environment and Animal Rights", "BDS")
	for i := 0; i < 10; i++ {
		if got := InferTags("Environment and Animal Rights", "BDS"); !reflect.DeepEqual(got, first) {
			t.Fatalf("Expected stable tags %v, got %v", first, got)
		}
	}
}

func TestReason(t *testing.T) {
	withReason := model.Boycott{Reason: "Long description", Category: "Human Rights", CalledBy: "BDS"}
	if got := Reason(withReason); got != "Long description" {
		t.Errorf("Expected record reason, got %q", got)
	}

	fallback := model.Boycott{Category: "Human Rights", CalledBy: "BDS"}
	if got := Reason(fallback); got != "Human Rights - Called by BDS" {
		t.Errorf("Expected synthesized reason, got %q", got)
	}

	empty := model.Boycott{}
	if got := Reason(empty); got != " - Called by " {
		t.Errorf("Expected empty synthesized reason, got %q", got)
	}
}

func TestEvilCompanies(t *testing.T) {
	records := []model.Boycott{
		{Company: "  Acme Corp ", Category: "Workers' Rights", CalledBy: "Labor Union X", RelatedGuides: []string{}},
		{Company: "", Category: "Human Rights"},
		{Company: "Puma", Category: "Human Rights", CalledBy: "BDS Movement", Reason: "Sponsors the IFA."},
	}

	got, collisions := EvilCompanies(records)
	if len(collisions) != 0 {
		t.Errorf("Expected no collisions, got %v", collisions)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d: %v", len(got), got)
	}

	acme, ok := got["acme corp"]
	if !ok {
		t.Fatalf("Expected key 'acme corp', got keys %v", got)
	}
	want := model.EvilCompany{
		Evil:         true,
		Reason:       "Workers' Rights - Called by Labor Union X",
		Alternatives: []string{},
		Supports:     []string{"Labor"},
	}
	if !reflect.DeepEqual(acme, want) {
		t.Errorf("acme = %+v, want %+v", acme, want)
	}

	puma := got["puma"]
	if puma.Reason != "Sponsors the IFA." {
		t.Errorf("Expected record reason for puma, got %q", puma.Reason)
	}
	if !reflect.DeepEqual(puma.Supports, []string{"Israel"}) {
		t.Errorf("puma supports = %v", puma.Supports)
	}
}

func TestEvilCompanies_CollisionLastWins(t *testing.T) {
	records := []model.Boycott{
		{Company: "Acme", Category: "Environment"},
		{Company: " acme", Category: "Animal Rights"},
	}

	got, collisions := EvilCompanies(records)
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}
	if !reflect.DeepEqual(got["acme"].Supports, []string{"Animal-Testing"}) {
		t.Errorf("Expected later record to win, got %v", got["acme"].Supports)
	}
	if len(collisions) != 1 || collisions[0].Previous != "Acme" || collisions[0].Current != " acme" {
		t.Errorf("Unexpected collisions: %+v", collisions)
	}
}

func TestEvilCompanies_Empty(t *testing.T) {
	got, _ := EvilCompanies(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil map, got %v", got)
	}
}
