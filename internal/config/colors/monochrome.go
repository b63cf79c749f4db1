package colors

// Monochrome returns a black and white color scheme
func Monochrome() *ColorScheme {
	return &ColorScheme{
		Preset: "monochrome",

		Accent:       "#FFFFFF",
		ColumnBorder: "#FFFFFF",
		CardBorder:   "#585858",

		Todo:       "#FFFFFF",
		InProgress: "#FFFFFF",
		Review:     "#FFFFFF",
		Done:       "#FFFFFF",

		Title:  "#FFFFFF",
		Subtle: "#585858",
		Normal: "#D0D0D0",

		InfoFg:    "#FFFFFF",
		WarningFg: "#FFFFFF",
		ErrorFg:   "#FFFFFF",
	}
}
