// Package report renders probe results and device summaries for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kajomano/Kea/vulkan"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ccff"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Bold(true)

	Present = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ff88"))

	Absent = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff4444"))
)

// Names renders a titled list, marking the entries in highlight.
func Names(title string, names []string, highlight []string) string {
	marked := make(map[string]bool, len(highlight))
	for _, h := range highlight {
		marked[h] = true
	}

	var b strings.Builder
	b.WriteString(Title.Render(fmt.Sprintf("%s (%d)", title, len(names))))
	for _, n := range names {
		b.WriteString("\n")
		if marked[n] {
			b.WriteString(Present.Render("* " + n))
		} else {
			b.WriteString("  " + n)
		}
	}
	return Panel.Render(b.String())
}

// Requested renders whether each requested name is available.
func Requested(title string, requested, missing []string) string {
	absent := make(map[string]bool, len(missing))
	for _, m := range missing {
		absent[m] = true
	}

	var b strings.Builder
	b.WriteString(Title.Render(title))
	if len(requested) == 0 {
		b.WriteString("\n" + Label.Render("nothing requested"))
	}
	for _, r := range requested {
		b.WriteString("\n")
		if absent[r] {
			b.WriteString(Absent.Render("missing   " + r))
		} else {
			b.WriteString(Present.Render("available " + r))
		}
	}
	return Panel.Render(b.String())
}

// Device renders the selected device and, when mem is non-nil, the host
// memory backing it.
func Device(info vulkan.DeviceInfo, mem *vulkan.MemoryInfo) string {
	rows := [][2]string{
		{"name", info.Name},
		{"type", info.Type.String()},
		{"api version", vulkan.FormatVersion(info.APIVersion)},
		{"driver version", vulkan.FormatVersion(info.DriverVersion)},
		{"max compute shared memory", fmt.Sprintf("%d bytes", info.MaxComputeSharedMemorySize)},
		{"compute queue family", fmt.Sprintf("%d", info.QueueFamilyIndex)},
	}
	if mem != nil {
		rows = append(rows,
			[2]string{"host memory type", fmt.Sprintf("%d", mem.TypeIndex)},
			[2]string{"host memory heap", fmt.Sprintf("%d (%.2f GB)", mem.HeapIndex, float64(mem.HeapSize)/(1<<30))},
		)
	}

	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}

	var b strings.Builder
	b.WriteString(Title.Render("Physical device"))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(Label.Render(fmt.Sprintf("%-*s", width, r[0])))
		b.WriteString("  ")
		b.WriteString(Value.Render(r[1]))
	}
	return Panel.Render(b.String())
}
