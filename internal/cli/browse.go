package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	sgerrors "github.com/osduviz/schemagraph/pkg/errors"
	"github.com/osduviz/schemagraph/pkg/graph"
	"github.com/osduviz/schemagraph/pkg/pipeline"
)

// browseCommand creates the interactive schema picker.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse [schema-dir]",
		Short: "Interactively pick a schema and extract its graph",
		Long: `Interactively pick a schema and extract its graph.

The browse command loads the schema index from a directory, lets you
filter and select a schema in the terminal, and extracts its graph the
same way 'extract' would.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, dir, output string, noCache bool) error {
	ix, err := c.loadIndex(dir)
	if err != nil {
		return err
	}
	if ix.Len() == 0 {
		printWarning("No schemas found in %s", dir)
		return nil
	}

	model := newSchemaListModel(ix.Keys())
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	selected := final.(schemaListModel).Selected
	if selected == "" {
		return nil
	}

	doc, _ := ix.Lookup(selected)

	sp := startSpinner(ctx, "Extracting "+selected)
	result, err := c.newRunner(noCache).Execute(ctx, doc, ix, pipeline.Defaults())
	if err != nil {
		sp.fail("Extraction failed: %s", sgerrors.UserMessage(err))
		return err
	}
	if err := graph.WriteFile(result.Graph, output); err != nil {
		sp.halt()
		return err
	}
	sp.success("Extracted %s (%d nodes) to %s", selected, len(result.Graph.Nodes), output)
	return nil
}

// =============================================================================
// schemaListModel - Interactive schema selection
// =============================================================================

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// schemaListModel is the bubbletea model for schema selection.
type schemaListModel struct {
	keys     []string // full index
	visible  []string // keys matching the current filter
	filter   string
	cursor   int
	offset   int
	height   int
	Selected string
}

func newSchemaListModel(keys []string) schemaListModel {
	return schemaListModel{keys: keys, visible: keys, height: 15}
}

func (m schemaListModel) Init() tea.Cmd {
	return nil
}

func (m schemaListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if len(m.visible) > 0 {
				m.Selected = m.visible[m.cursor]
			}
			return m, tea.Quit
		case "backspace":
			if len(m.filter) > 0 {
				m.filter = m.filter[:len(m.filter)-1]
				m.refilter()
			}
		default:
			if len(msg.String()) == 1 {
				m.filter += msg.String()
				m.refilter()
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m *schemaListModel) refilter() {
	m.cursor, m.offset = 0, 0
	if m.filter == "" {
		m.visible = m.keys
		return
	}
	f := strings.ToLower(m.filter)
	m.visible = nil
	for _, k := range m.keys {
		if strings.Contains(strings.ToLower(k), f) {
			m.visible = append(m.visible, k)
		}
	}
}

func (m schemaListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Schema"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	if m.filter != "" {
		b.WriteString(StyleHighlight.Render("/" + m.filter))
		b.WriteString("\n")
	}

	end := m.offset + m.height
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.visible[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.visible[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(m.visible)), len(m.visible))))
	return b.String()
}
