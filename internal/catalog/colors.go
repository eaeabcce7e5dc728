package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed colors.yaml
var colorsYAML []byte

type Color struct {
	Label string `yaml:"label"`
	CSS   string `yaml:"css"`
}

// ColorGroup collects the labels sharing a first word ("xanh", "màu", ...).
type ColorGroup struct {
	Group   string
	Options []Color
}

// Palette maps Vietnamese colour labels to CSS colours, keeping file order.
type Palette struct {
	colors []Color
	byName map[string]string
}

func ParsePalette(data []byte) (*Palette, error) {
	var colors []Color
	if err := yaml.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("parse colour palette: %w", err)
	}
	p := &Palette{colors: make([]Color, 0, len(colors)), byName: make(map[string]string, len(colors))}
	for _, c := range colors {
		label := strings.TrimSpace(c.Label)
		if label == "" || c.CSS == "" {
			return nil, fmt.Errorf("parse colour palette: incomplete entry %q", c.Label)
		}
		key := strings.ToLower(label)
		if _, dup := p.byName[key]; dup {
			continue
		}
		p.byName[key] = c.CSS
		p.colors = append(p.colors, Color{Label: label, CSS: c.CSS})
	}
	return p, nil
}

var defaultPalette = mustPalette()

func mustPalette() *Palette {
	p, err := ParsePalette(colorsYAML)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPalette is the embedded colour list.
func DefaultPalette() *Palette { return defaultPalette }

func (p *Palette) Colors() []Color {
	return append([]Color(nil), p.colors...)
}

// CSSColor resolves a label case-insensitively; unknown labels are returned
// as is so plain CSS names still render.
func (p *Palette) CSSColor(label string) string {
	if css, ok := p.byName[strings.ToLower(strings.TrimSpace(label))]; ok {
		return css
	}
	return label
}

// Grouped groups labels by their first word in first-seen order.
func (p *Palette) Grouped() []ColorGroup {
	var groups []ColorGroup
	index := make(map[string]int)
	for _, c := range p.colors {
		root, _, _ := strings.Cut(c.Label, " ")
		i, ok := index[root]
		if !ok {
			i = len(groups)
			index[root] = i
			groups = append(groups, ColorGroup{Group: root})
		}
		groups[i].Options = append(groups[i].Options, c)
	}
	return groups
}

// CSSColor resolves label against the embedded palette.
func CSSColor(label string) string {
	return defaultPalette.CSSColor(label)
}
