// Package report renders GPU snapshots as line-oriented text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/benaskins/gpuinfo/internal/gpu"
	"github.com/charmbracelet/lipgloss"
)

// Mode selects the output format.
type Mode string

const (
	ModeDefault Mode = "default"
	ModePercent Mode = "percent"
	ModeFull    Mode = "full"
	ModeJSON    Mode = "json"
)

// NotAvailable is printed in place of an absent utilization.
const NotAvailable = "N/A"

// ParseMode validates a mode name. The empty string is ModeDefault.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeDefault, nil
	case ModeDefault, ModePercent, ModeFull, ModeJSON:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output mode %q", s)
	}
}

// Options tune rendering.
type Options struct {
	// Styled renders the full-mode header and labels in bold. Only set it
	// when writing to a terminal.
	Styled bool
}

// Write renders info in the given mode followed by a newline.
func Write(w io.Writer, info gpu.Info, mode Mode, opts Options) error {
	var out string
	switch mode {
	case ModePercent:
		out = Percent(info)
	case ModeFull:
		out = Full(info, opts)
	case ModeJSON:
		data, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("marshaling snapshot: %w", err)
		}
		out = string(data)
	default:
		out = Default(info)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// Default is "GPU: <n>%", or the device name when utilization is unavailable.
func Default(info gpu.Info) string {
	if info.UtilizationPercent != nil {
		return fmt.Sprintf("GPU: %d%%", int(*info.UtilizationPercent))
	}
	return fmt.Sprintf("GPU: %s (monitoring not available)", info.Name)
}

// Percent is the bare utilization integer, or N/A.
func Percent(info gpu.Info) string {
	if info.UtilizationPercent == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%d", int(*info.UtilizationPercent))
}

var boldStyle = lipgloss.NewStyle().Bold(true)

// Full lists every present field, one labelled line each.
func Full(info gpu.Info, opts Options) string {
	label := func(s string) string {
		if opts.Styled {
			return boldStyle.Render(s)
		}
		return s
	}

	var b strings.Builder
	line := func(name, value string) {
		fmt.Fprintf(&b, "\n  %s %s", label(name+":"), value)
	}

	b.WriteString(label("GPU Information:"))
	line("Name", info.Name)

	if info.UtilizationPercent != nil {
		line("Utilization", fmt.Sprintf("%d%%", int(*info.UtilizationPercent)))
	} else {
		line("Utilization", NotAvailable)
	}
	if info.RendererUtilization != nil {
		line("Renderer", fmt.Sprintf("%d%%", int(*info.RendererUtilization)))
	}
	if info.TilerUtilization != nil {
		line("Tiler", fmt.Sprintf("%d%%", int(*info.TilerUtilization)))
	}
	if info.MetalVersion != nil {
		line("Metal", *info.MetalVersion)
	}
	if gb, ok := info.MemoryGB(); ok {
		line("Memory", fmt.Sprintf("%.1f GB (Unified)", gb))
	}
	if info.CoreCount != nil {
		line("Cores", fmt.Sprintf("%d", *info.CoreCount))
	}

	return b.String()
}
