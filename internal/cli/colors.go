package cli

type AnsiColor string

// ref https://hexdocs.pm/color_palette/ansi_color_codes.html
const (
	AnsiRed   AnsiColor = "9"
	AnsiGreen AnsiColor = "2"
)
