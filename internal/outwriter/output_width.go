package outwriter

import (
	"os"

	"github.com/huangsam/schoolfit/internal/contract"
	"golang.org/x/term"
)

const (
	minNameWidth = 12
	maxNameWidth = 48
)

// GetMaxTableNameWidth calculates the maximum width for school and district names
// in table output based on terminal width and table configuration.
// nameColumns is how many name columns share the remaining space.
func GetMaxTableNameWidth(cfg *contract.Config, nameColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + County + Score + Label with borders/padding
	baseWidth := 45

	if cfg.Detail {
		baseWidth += 60 // up to six metric columns
	}
	if cfg.Explain {
		baseWidth += 32
	}

	// Table borders, separators and padding
	baseWidth += 12

	available := termWidth - baseWidth
	if nameColumns > 1 {
		available /= nameColumns
	}
	return max(minNameWidth, min(available, maxNameWidth))
}
