package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const maxBoxWidth = 72

var defaultBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder()).
	Padding(1, 2)

// RenderBoxedMessage renders `message` under a bold `header` in a box
// bordered with `color`, a `width` of 0 fits the terminal
func RenderBoxedMessage(color AnsiColor, header, message string, width int) string {
	if width <= 0 {
		width, _, _ = term.GetSize(int(os.Stdout.Fd()))
	}
	if width <= 0 || width > maxBoxWidth {
		width = maxBoxWidth
	}
	header = lipgloss.NewStyle().Bold(true).Render(header)
	boxStyle := defaultBoxStyle.
		BorderForeground(lipgloss.Color(color)).
		Align(lipgloss.Left).
		Width(width)
	return boxStyle.Render(fmt.Sprintf("%s\n\n%s", header, message))
}

func printBoxedMessage(color AnsiColor, header, message string) {
	fmt.Println(RenderBoxedMessage(color, header, message, 0))
}

func PrintBoxedErrorMessage(message string) {
	printBoxedMessage(AnsiRed, "🔴 ERROR", message)
}

func PrintBoxedSuccessMessage(message string) {
	printBoxedMessage(AnsiGreen, "✅ SUCCESS", message)
}
