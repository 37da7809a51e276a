package phase

import (
	"os"

	"github.com/logrusorgru/aurora"
	isatty "github.com/mattn/go-isatty"
)

// Colorize adds ansi colors to the phase banners when stdout is a
// terminal.
var Colorize = aurora.NewAurora(isatty.IsTerminal(os.Stdout.Fd()))
