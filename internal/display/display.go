// Package display renders run results as terminal boxes and tables. It
// consumes computed values only and holds no business logic.
package display

import (
	"fmt"
	"strings"
)

const boxWidth = 78

// SectionHeader prints a divider line naming the next section.
func SectionHeader(title string) {
	fmt.Println()
	fmt.Println(strings.Repeat("═", boxWidth))
	fmt.Println(center(strings.ToUpper(title), boxWidth))
	fmt.Println(strings.Repeat("═", boxWidth))
}

// Pair is one labelled value inside an info box. Order is preserved.
type Pair struct {
	Key   string
	Value string
}

// InfoBox prints a titled box of key/value rows.
func InfoBox(title string, pairs []Pair) {
	fmt.Println("\n┌" + strings.Repeat("─", boxWidth) + "┐")
	fmt.Println("│" + center(title, boxWidth) + "│")
	fmt.Println("├" + strings.Repeat("─", boxWidth) + "┤")
	for _, p := range pairs {
		line := fmt.Sprintf("%s: %s", p.Key, p.Value)
		fmt.Printf("│ %-*s │\n", boxWidth-2, truncate(line, boxWidth-2))
	}
	fmt.Println("└" + strings.Repeat("─", boxWidth) + "┘")
}

// Table prints a titled table with the first column right-aligned and the
// rest left-aligned.
func Table(title string, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	fmt.Println("\n" + title)
	var sb strings.Builder
	for i, h := range headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(pad(h, widths[i], i == 0))
	}
	fmt.Println(sb.String())
	fmt.Println(strings.Repeat("─", len(sb.String())))

	for _, row := range rows {
		var rb strings.Builder
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				rb.WriteString("  ")
			}
			rb.WriteString(pad(cell, widths[i], i == 0))
		}
		fmt.Println(rb.String())
	}
}

func pad(s string, width int, right bool) string {
	if right {
		return fmt.Sprintf("%*s", width, s)
	}
	return fmt.Sprintf("%-*s", width, s)
}

func center(s string, width int) string {
	if len(s) >= width {
		return truncate(s, width)
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width]
}
