package tui

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// Skin is a palette override read from <configDir>/skins/<name>.yml.
type Skin struct {
	Name   string            `yaml:"name"`
	Colors SkinColors        `yaml:"colors"`
	Levels map[string]string `yaml:"levels"`
}

// SkinColors are the chrome colors. Empty fields keep the default.
type SkinColors struct {
	Gray   string `yaml:"gray"`
	Blue   string `yaml:"blue"`
	Green  string `yaml:"green"`
	Red    string `yaml:"red"`
	White  string `yaml:"white"`
	Accent string `yaml:"accent"`
}

// LoadSkin reads and parses a skin file.
func LoadSkin(path string) (Skin, error) {
	var s Skin
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse skin %s: %w", path, err)
	}
	return s, nil
}

// InitializeSkin applies the named skin. The default skin needs no file.
func InitializeSkin(name, configDir string) error {
	if name == "" || name == model.DefaultSkin {
		return nil
	}
	s, err := LoadSkin(filepath.Join(configDir, "skins", name+".yml"))
	if err != nil {
		return err
	}
	ApplySkin(s)
	return nil
}

// ApplySkin installs the skin's colors and rebuilds the styles.
func ApplySkin(s Skin) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorGray, s.Colors.Gray)
	set(&ColorBlue, s.Colors.Blue)
	set(&ColorGreen, s.Colors.Green)
	set(&ColorRed, s.Colors.Red)
	set(&ColorWhite, s.Colors.White)
	set(&ColorAccent, s.Colors.Accent)
	SetCategoryColors(s.Levels)
	rebuildStyles()
}

// CategoryColors returns a copy of the active category palette so the text
// adapter can share it.
func CategoryColors() map[string]string {
	return maps.Clone(categoryColors)
}
