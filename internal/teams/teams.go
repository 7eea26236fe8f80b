// Package teams maps NBA team names and player names to the static
// assets (logos, headshots) served alongside report data.
package teams

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default locations of the synced player assets, relative to the
// working directory.
const (
	DefaultNameMapPath = "assets/player_name_map.json"
	DefaultHeadshotDir = "assets/player_headshots"
)

// LogoCodeByName maps official team names to ESPN-style logo codes.
// The Clippers appear under both naming conventions.
var LogoCodeByName = map[string]string{
	"Atlanta Hawks":          "atl",
	"Boston Celtics":         "bos",
	"Brooklyn Nets":          "bkn",
	"Charlotte Hornets":      "cha",
	"Chicago Bulls":          "chi",
	"Cleveland Cavaliers":    "cle",
	"Dallas Mavericks":       "dal",
	"Denver Nuggets":         "den",
	"Detroit Pistons":        "det",
	"Golden State Warriors":  "gs",
	"Houston Rockets":        "hou",
	"Indiana Pacers":         "ind",
	"LA Clippers":            "lac",
	"Los Angeles Clippers":   "lac",
	"Los Angeles Lakers":     "lal",
	"Memphis Grizzlies":      "mem",
	"Miami Heat":             "mia",
	"Milwaukee Bucks":        "mil",
	"Minnesota Timberwolves": "min",
	"New Orleans Pelicans":   "no",
	"New York Knicks":        "ny",
	"Oklahoma City Thunder":  "okc",
	"Orlando Magic":          "orl",
	"Philadelphia 76ers":     "phi",
	"Phoenix Suns":           "phx",
	"Portland Trail Blazers": "por",
	"Sacramento Kings":       "sac",
	"San Antonio Spurs":      "sa",
	"Toronto Raptors":        "tor",
	"Utah Jazz":              "utah",
	"Washington Wizards":     "wsh",
}

// LogoSrc returns the asset path for a team's logo, or "" when the
// team name is not recognized.
func LogoSrc(teamName string) string {
	code, ok := LogoCodeByName[strings.TrimSpace(teamName)]
	if !ok {
		return ""
	}
	return "/assets/team_logos/" + code + ".png"
}

var (
	stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	punctPattern = regexp.MustCompile("[.'`]")
	spacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeNameKey folds a player name into a lookup key: accents
// stripped, lowercased, punctuation dropped, hyphens and runs of
// whitespace collapsed to single spaces.
func NormalizeNameKey(value string) string {
	folded, _, err := transform.String(stripAccents, value)
	if err != nil {
		folded = value
	}
	key := strings.ToLower(strings.TrimSpace(folded))
	key = strings.ReplaceAll(key, " ", " ")
	key = punctPattern.ReplaceAllString(key, "")
	key = strings.ReplaceAll(key, "-", " ")
	return spacePattern.ReplaceAllString(key, " ")
}

// Headshots resolves player names to headshot image files.
type Headshots struct {
	fileByKey map[string]string
	available map[string]bool
}

// LoadHeadshots builds a Headshots lookup from a name-map JSON file and
// the directory of downloaded images. Both are optional; missing inputs
// yield an empty lookup rather than an error.
func LoadHeadshots(mapPath, headshotDir string) *Headshots {
	h := &Headshots{
		fileByKey: loadNameMap(mapPath),
		available: availableFiles(headshotDir),
	}
	return h
}

// Src returns the asset path for a player's headshot, or "" when no
// image is known or downloaded for that player.
func (h *Headshots) Src(playerName string) string {
	filename, ok := h.fileByKey[NormalizeNameKey(playerName)]
	if !ok || !h.available[filename] {
		return ""
	}
	return "/assets/player_headshots/" + filename
}

// loadNameMap reads the player name map. Values may be image filenames
// or bare NBA player ids; ids resolve to "<id>.png".
func loadNameMap(path string) map[string]string {
	loaded := make(map[string]string)
	data, err := os.ReadFile(path)
	if err != nil {
		return loaded
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return loaded
	}
	for name, raw := range payload {
		key := NormalizeNameKey(name)
		if key == "" {
			continue
		}
		var id int64
		if err := json.Unmarshal(raw, &id); err == nil {
			loaded[key] = fmt.Sprintf("%d.png", id)
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		switch {
		case strings.HasSuffix(value, ".png"):
			loaded[key] = filepath.Base(value)
		case isDigits(value):
			loaded[key] = value + ".png"
		}
	}
	return loaded
}

func availableFiles(dir string) map[string]bool {
	files := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return files
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".png") {
			files[entry.Name()] = true
		}
	}
	return files
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
