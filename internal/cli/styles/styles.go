// Package styles holds the lipgloss styles used for human-readable CLI output.
package styles

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/taskboard/internal/config"
	"github.com/thenoetrevino/taskboard/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Board styles
	ColumnStyle    lipgloss.Style
	BoardCardStyle lipgloss.Style
	ColumnWidth    = 28

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Status:", "Priority:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Activity"

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style

	columnHeader map[models.ColumnStatus]lipgloss.Style
)

func init() {
	Init(config.DefaultColorScheme())
}

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	colors.ApplyDefaults()

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(colors.ColumnBorder)).
		Width(ColumnWidth).
		Padding(0, 1)

	BoardCardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.CardBorder)).
		Width(ColumnWidth - 4)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Accent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.InfoFg))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.ErrorFg))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.WarningFg))

	columnHeader = map[models.ColumnStatus]lipgloss.Style{
		models.ColumnTodo:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Todo)),
		models.ColumnInProgress: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.InProgress)),
		models.ColumnReview:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Review)),
		models.ColumnDone:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Done)),
	}
}

// Field renders "label: value"
func Field(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// RenderCard renders one card as a small bordered box
func RenderCard(card *models.Card) string {
	var b strings.Builder
	if card.TaskID != nil {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("#%d ", *card.TaskID)))
	}
	b.WriteString(TitleStyle.Render(card.Title))
	if card.Priority != "" {
		b.WriteString("\n" + SubtitleStyle.Render(string(card.Priority)))
	}
	return BoardCardStyle.Render(b.String())
}

// RenderBoard lays out the board's columns side by side, cards in order
func RenderBoard(view *models.BoardView) string {
	columns := make([]string, 0, len(view.Board.Columns))
	for _, col := range view.Board.Columns {
		cards := view.Cards[col.ID]

		header, ok := columnHeader[col.Status]
		if !ok {
			header = TitleStyle
		}
		parts := []string{header.Render(fmt.Sprintf("%s (%d)", col.Name, len(cards)))}
		for _, card := range cards {
			parts = append(parts, RenderCard(card))
		}
		columns = append(columns, ColumnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
