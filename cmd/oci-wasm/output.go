package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/oci-wasm/capability"
	"github.com/wippyai/oci-wasm/errors"
)

const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	exportStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	importStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// listing is anything with an export and import list.
type listing struct {
	Exports []string
	Imports []string
}

func descriptorListing(d *capability.Descriptor) listing {
	return listing{Exports: d.Exports.Sorted(), Imports: d.Imports.Sorted()}
}

func writeOutput(w io.Writer, format string, v any, l listing) error {
	switch format {
	case outputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case outputTable:
		_, err := io.WriteString(w, renderTable(l, isTerminal(w)))
		return err
	default:
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("unknown output format %q", format))
	}
}

func renderTable(l listing, styled bool) string {
	rows := make([][]string, 0, len(l.Exports)+len(l.Imports))
	for _, name := range l.Exports {
		rows = append(rows, []string{"export", name})
	}
	for _, name := range l.Imports {
		rows = append(rows, []string{"import", name})
	}

	if !styled {
		var out string
		for _, row := range rows {
			out += row[0] + "\t" + row[1] + "\n"
		}
		return out
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("DIRECTION", "NAME").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row >= len(rows) {
				return headerStyle.Padding(0, 1)
			}
			if rows[row][0] == "export" {
				return exportStyle.Padding(0, 1)
			}
			return importStyle.Padding(0, 1)
		})
	return t.String() + "\n"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
