// Package theme holds the board's appearance configuration: a small YAML
// file under the store root, with sensible defaults when it is absent.
// Emphasis is modelled as one enumerated Style record per element rather
// than free-form flag combinations.
package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "theme.yaml"

// ErrConfig marks an unreadable theme file. Callers fall back to defaults.
var ErrConfig = errors.New("config")

// Style is the read-only emphasis capability handed to the renderer.
type Style struct {
	Color     string `yaml:"color"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	Underline bool   `yaml:"underline"`
	Dim       bool   `yaml:"dim"`
	Strike    bool   `yaml:"strike"`
}

// Palette maps entry state to a foreground color (hex).
type Palette struct {
	Low       string `yaml:"low"`
	Normal    string `yaml:"normal"`
	High      string `yaml:"high"`
	Completed string `yaml:"completed"`
}

// Section styles one group of the board (to-do, in progress, notes) plus the
// title row.
type Section struct {
	Heading       Style   `yaml:"heading"`
	Icon          string  `yaml:"icon"`
	CompletedIcon string  `yaml:"completed_icon"`
	IconSuffix    bool    `yaml:"icon_suffix"`
	Indent        int     `yaml:"indent"`
	Bold          bool    `yaml:"bold"`
	Italic        bool    `yaml:"italic"`
	DimCompleted  bool    `yaml:"dim_completed"`
	Palette       Palette `yaml:"palette"`
}

// Tags styles the inline tag text appended to a row.
type Tags struct {
	Icon       string `yaml:"icon"`
	IconSuffix bool   `yaml:"icon_suffix"`
	Style      Style  `yaml:"style"`
}

type Theme struct {
	// Borders is one of "empty", "normal", "rounded".
	Borders      string  `yaml:"borders"`
	DisableTitle bool    `yaml:"disable_title"`
	Title        Section `yaml:"title"`
	Todo         Section `yaml:"todo"`
	InProgress   Section `yaml:"in_progress"`
	Notes        Section `yaml:"notes"`
	Tags         Tags    `yaml:"tags"`
}

func Default() Theme {
	section := func(icon string) Section {
		return Section{
			Heading:       Style{Color: "#fabd2f", Bold: true, Underline: true},
			Icon:          icon,
			CompletedIcon: "✓ ",
			Indent:        2,
			DimCompleted:  true,
			Palette: Palette{
				Low:       "#8ec07c",
				Normal:    "#ebdbb2",
				High:      "#fb4934",
				Completed: "#928374",
			},
		}
	}
	return Theme{
		Borders:    "empty",
		Title:      Section{Heading: Style{Color: "#d3869b", Bold: true}},
		Todo:       section("○ "),
		InProgress: section("◐ "),
		Notes:      section("• "),
		Tags:       Tags{Style: Style{Color: "#83a598", Italic: true}},
	}
}

// Load reads root/theme.yaml over the defaults. A missing file means
// defaults; an unreadable or malformed one returns defaults plus an error
// wrapping ErrConfig, so the board still renders.
func Load(root string) (Theme, error) {
	b, err := os.ReadFile(filepath.Join(root, fileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("%w: %s: %v", ErrConfig, fileName, err)
	}
	th := Default()
	if err := yaml.Unmarshal(b, &th); err != nil {
		return Default(), fmt.Errorf("%w: %s: %v", ErrConfig, fileName, err)
	}
	switch th.Borders {
	case "empty", "normal", "rounded":
	default:
		th.Borders = "empty"
	}
	return th, nil
}
