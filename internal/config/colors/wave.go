package colors

// Wave returns the Kanagawa Wave color scheme (dark theme with blue/purple accents)
func Wave() *ColorScheme {
	return &ColorScheme{
		Preset: "wave",

		// oniViolet
		Accent: "#957FB8",

		// sumiInk6, sumiInk4
		ColumnBorder: "#54546D",
		CardBorder:   "#363646",

		// crystalBlue, carpYellow, sakuraPink, springGreen
		Todo:       "#7E9CD8",
		InProgress: "#E6C384",
		Review:     "#D27E99",
		Done:       "#98BB6C",

		// crystalBlue, fujiGray, fujiWhite
		Title:  "#7E9CD8",
		Subtle: "#727169",
		Normal: "#DCD7BA",

		// dragonBlue, roninYellow, samuraiRed
		InfoFg:    "#658594",
		WarningFg: "#FF9E3B",
		ErrorFg:   "#E82424",
	}
}
