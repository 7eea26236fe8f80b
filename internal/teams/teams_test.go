package teams

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLogoSrc(t *testing.T) {
	tests := []struct {
		team string
		want string
	}{
		{"Boston Celtics", "/assets/team_logos/bos.png"},
		{"LA Clippers", "/assets/team_logos/lac.png"},
		{"Los Angeles Clippers", "/assets/team_logos/lac.png"},
		{"  Utah Jazz  ", "/assets/team_logos/utah.png"},
		{"Seattle SuperSonics", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := LogoSrc(tt.team); got != tt.want {
			t.Errorf("LogoSrc(%q) = %q, want %q", tt.team, got, tt.want)
		}
	}
}

func TestNormalizeNameKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jović, Nikola", "jovic, nikola"},
		{"Danté Exum", "dante exum"},
		{"O'Neale, Royce", "oneale, royce"},
		{"Smith-Rowe,  Emile", "smith rowe, emile"},
		{"  P.J. Washington  ", "pj washington"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeNameKey(tt.in); got != tt.want {
			t.Errorf("NormalizeNameKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHeadshotsSrc(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "player_name_map.json")
	if err := os.WriteFile(mapPath, []byte(`{
		"Jović, Nikola": "nikola-jovic-1631107.png",
		"Exum, Danté": 203957,
		"Doe, John": "1234",
		"Missing, Image": "missing.png"
	}`), 0644); err != nil {
		t.Fatal(err)
	}
	headshotDir := filepath.Join(dir, "player_headshots")
	if err := os.MkdirAll(headshotDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"nikola-jovic-1631107.png", "203957.png", "1234.png"} {
		if err := os.WriteFile(filepath.Join(headshotDir, name), []byte("png"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	h := LoadHeadshots(mapPath, headshotDir)

	tests := []struct {
		player string
		want   string
	}{
		{"Jović, Nikola", "/assets/player_headshots/nikola-jovic-1631107.png"},
		{"jovic, nikola", "/assets/player_headshots/nikola-jovic-1631107.png"},
		{"Exum, Danté", "/assets/player_headshots/203957.png"},
		{"Doe, John", "/assets/player_headshots/1234.png"},
		{"Missing, Image", ""},
		{"Unknown, Player", ""},
	}
	for _, tt := range tests {
		if got := h.Src(tt.player); got != tt.want {
			t.Errorf("Src(%q) = %q, want %q", tt.player, got, tt.want)
		}
	}
}

func TestLoadHeadshotsMissingInputs(t *testing.T) {
	h := LoadHeadshots(filepath.Join(t.TempDir(), "nope.json"), filepath.Join(t.TempDir(), "nope"))
	if got := h.Src("Jović, Nikola"); got != "" {
		t.Errorf("Src() with missing inputs = %q, want empty", got)
	}
}
