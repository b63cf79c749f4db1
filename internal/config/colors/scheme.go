package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome", "wave")
	Preset string `yaml:"preset"`

	// Primary accent color (used for headers and highlights)
	Accent string `yaml:"accent"`

	// Board elements
	ColumnBorder string `yaml:"column_border"`
	CardBorder   string `yaml:"card_border"`

	// One color per board column
	Todo       string `yaml:"todo"`
	InProgress string `yaml:"in_progress"`
	Review     string `yaml:"review"`
	Done       string `yaml:"done"`

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted/placeholder text
	Normal string `yaml:"normal"`

	// Message colors
	InfoFg    string `yaml:"info_fg"`
	WarningFg string `yaml:"warning_fg"`
	ErrorFg   string `yaml:"error_fg"`
}

// GetPreset returns a preset color scheme by name
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "wave":
		return Wave()
	default:
		return Default()
	}
}

// ApplyDefaults fills in missing color values using the preset as base
// If preset is specified, loads that preset first, then overrides with custom values
func (c *ColorScheme) ApplyDefaults() {
	c.MergeFrom(*GetPreset(c.Preset), false)
	if c.Preset == "" {
		c.Preset = "default"
	}
}

// MergeFrom copies colors from other. With override set, every non-empty
// value of other wins; otherwise only empty fields of c are filled.
func (c *ColorScheme) MergeFrom(other ColorScheme, override bool) {
	fields := []struct {
		dst *string
		src string
	}{
		{&c.Accent, other.Accent},
		{&c.ColumnBorder, other.ColumnBorder},
		{&c.CardBorder, other.CardBorder},
		{&c.Todo, other.Todo},
		{&c.InProgress, other.InProgress},
		{&c.Review, other.Review},
		{&c.Done, other.Done},
		{&c.Title, other.Title},
		{&c.Subtle, other.Subtle},
		{&c.Normal, other.Normal},
		{&c.InfoFg, other.InfoFg},
		{&c.WarningFg, other.WarningFg},
		{&c.ErrorFg, other.ErrorFg},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		if override || *f.dst == "" {
			*f.dst = f.src
		}
	}
}
