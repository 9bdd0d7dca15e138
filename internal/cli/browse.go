package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesio/pkg/integrations/crates"
)

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse crates interactively",
		Long: `Browse a crate listing in the terminal. More crates are fetched as the
cursor approaches the end of the list; pressing enter shows the selected
crate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			client, err := c.newClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			model := newBrowseModel(ctx, client.CratesStream(q), int(q.PerPage))
			final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
			if err != nil {
				return err
			}

			m := final.(browseModel)
			if m.err != nil {
				return m.err
			}
			if m.selected == nil {
				return nil
			}

			resp, err := client.Crate(ctx, m.selected.Name)
			if err != nil {
				return err
			}
			return c.output(cmd, resp, func(w io.Writer) {
				printCrate(w, &resp.Crate, resp.Categories, resp.Keywords)
			})
		},
	}

	opts.register(cmd)
	return cmd
}

// =============================================================================
// browseModel - Lazily loaded crate list
// =============================================================================

// crateSource yields crates one at a time; *crates.CrateStream implements it.
type crateSource interface {
	Next(ctx context.Context) (crates.Crate, error)
}

// cratesLoadedMsg carries a batch pulled from the source.
type cratesLoadedMsg struct {
	crates    []crates.Crate
	exhausted bool
	err       error
}

// prefetchDistance is how close to the end of the list the cursor gets
// before the next batch is requested.
const prefetchDistance = 5

type browseModel struct {
	ctx    context.Context
	source crateSource
	batch  int

	crates    []crates.Crate
	cursor    int
	offset    int
	height    int
	loading   bool
	exhausted bool
	err       error
	selected  *crates.Crate
	now       time.Time
}

func newBrowseModel(ctx context.Context, source crateSource, batch int) browseModel {
	return browseModel{
		ctx:     ctx,
		source:  source,
		batch:   max(batch, 1),
		height:  15,
		loading: true,
		now:     time.Now(),
	}
}

// load pulls the next batch from the source.
func (m browseModel) load() tea.Cmd {
	source, ctx, n := m.source, m.ctx, m.batch
	return func() tea.Msg {
		var msg cratesLoadedMsg
		for range n {
			k, err := source.Next(ctx)
			if err == io.EOF {
				msg.exhausted = true
				break
			}
			if err != nil {
				msg.exhausted, msg.err = true, err
				break
			}
			msg.crates = append(msg.crates, k)
		}
		return msg
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cratesLoadedMsg:
		m.loading = false
		m.crates = append(m.crates, msg.crates...)
		m.exhausted = msg.exhausted
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.crates)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if len(m.crates) > 0 {
				k := m.crates[m.cursor]
				m.selected = &k
				return m, tea.Quit
			}
		}
		return m.maybeLoad()

	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
		return m.maybeLoad()
	}
	return m, nil
}

// maybeLoad requests the next batch when the cursor nears the end of the
// loaded crates or the window shows more rows than are loaded.
func (m browseModel) maybeLoad() (tea.Model, tea.Cmd) {
	if m.loading || m.exhausted {
		return m, nil
	}
	if m.cursor+prefetchDistance < len(m.crates) && len(m.crates) >= m.height {
		return m, nil
	}
	m.loading = true
	return m, m.load()
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse Crates"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ show  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.crates))

	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		k := m.crates[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, k.Name, k.MaxVersion, formatCount(k.Downloads), formatRelativeTime(k.UpdatedAt, m.now)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Crate", "Version", "Downloads", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	status := fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(m.crates)), len(m.crates))
	switch {
	case m.loading:
		status += " loading…"
	case !m.exhausted:
		status += " more available"
	}
	b.WriteString(StyleDim.Render(status))

	return b.String()
}
