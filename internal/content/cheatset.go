package content

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed data/cheatset.toml
var cheatsetDoc string

// Cheatset is the quick-reference study sheet.
type Cheatset struct {
	Title    string         `toml:"title"`
	Intro    string         `toml:"intro"`
	Sections []StudySection `toml:"sections"`
}

// StudySection is one titled group of reference items.
type StudySection struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Items       []string `toml:"items"`
}

// LoadCheatset decodes the embedded cheatset.
func LoadCheatset() (Cheatset, error) {
	var cs Cheatset
	if _, err := toml.Decode(cheatsetDoc, &cs); err != nil {
		return Cheatset{}, fmt.Errorf("decode cheatset: %w", err)
	}
	return cs, nil
}
