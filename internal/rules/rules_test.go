package rules

import "testing"

func TestAbilityModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{3, -4},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{12, 1},
		{14, 2},
		{15, 2},
		{16, 3},
		{18, 4},
		{20, 5},
	}

	for _, tt := range tests {
		if got := AbilityModifier(tt.score); got != tt.want {
			t.Errorf("AbilityModifier(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestHitPoints(t *testing.T) {
	tests := []struct {
		constitution int
		want         int
	}{
		{10, 10},
		{14, 12},
		{8, 9},
		{20, 15},
	}

	for _, tt := range tests {
		if got := HitPoints(tt.constitution); got != tt.want {
			t.Errorf("HitPoints(%d) = %d, want %d", tt.constitution, got, tt.want)
		}
	}
}

func TestArmorClass(t *testing.T) {
	tests := []struct {
		dexterity int
		want      int
	}{
		{10, 10},
		{16, 13},
		{8, 9},
	}

	for _, tt := range tests {
		if got := ArmorClass(tt.dexterity); got != tt.want {
			t.Errorf("ArmorClass(%d) = %d, want %d", tt.dexterity, got, tt.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, MinAbilityScore},
		{-5, MinAbilityScore},
		{10, 10},
		{20, 20},
		{25, MaxAbilityScore},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCatalogComplete(t *testing.T) {
	if len(Races) != 9 {
		t.Errorf("len(Races) = %d, want 9", len(Races))
	}
	if len(Classes) != 12 {
		t.Errorf("len(Classes) = %d, want 12", len(Classes))
	}
	if len(Backgrounds) != 12 {
		t.Errorf("len(Backgrounds) = %d, want 12", len(Backgrounds))
	}

	for _, entry := range Races {
		if entry.Name == "" || entry.Description == "" {
			t.Errorf("race entry missing fields: %+v", entry)
		}
	}
}
