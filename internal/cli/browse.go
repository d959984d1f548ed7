package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/gedcom"
	"github.com/kintreehq/kintree/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for exploring a tree in the terminal.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [tree.json|tree.ged]",
		Short: "Explore a family tree's persons interactively",
		Long: `Explore a family tree's persons interactively.

Opens a scrollable table of every person in the tree. Selecting a
person prints their relationships, ready to paste into --collapsed or
the REST API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(args[0])
		},
	}
}

func (c *CLI) runBrowse(input string) error {
	var (
		tree *graph.Tree
		err  error
	)
	if strings.HasSuffix(strings.ToLower(input), ".ged") || strings.HasSuffix(strings.ToLower(input), ".gedcom") {
		tree, err = gedcom.DecodeFile(input)
	} else {
		tree, err = graph.ReadTreeFile(input)
	}
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}
	if len(tree.Persons) == 0 {
		printInfo("Tree %q has no persons", tree.Name)
		return nil
	}

	model := NewPersonListModel(tree)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	if m, ok := final.(PersonListModel); ok && m.Selected != nil {
		printPerson(tree, m.Selected)
	}
	return nil
}

// printPerson prints one person's details and relationships.
func printPerson(t *graph.Tree, p *family.Person) {
	fmt.Println(StyleTitle.Render(displayName(p)))
	printDetail("id: %s", p.ID)
	if p.Gender != "" && p.Gender != family.GenderUnknown {
		printDetail("gender: %s", p.Gender)
	}
	if p.BirthDate != nil {
		printDetail("born: %s", p.BirthDate.Format("2006-01-02"))
	}
	for _, line := range []struct {
		label string
		ids   []string
	}{
		{"parents", p.ParentIDs},
		{"spouses", p.SpouseIDs},
		{"children", p.ChildIDs},
	} {
		if len(line.ids) == 0 {
			continue
		}
		names := make([]string, len(line.ids))
		for i, id := range line.ids {
			if rel := t.Person(id); rel != nil {
				names[i] = displayName(rel)
			} else {
				names[i] = id + " (missing)"
			}
		}
		printDetail("%s: %s", line.label, strings.Join(names, ", "))
	}
}

func displayName(p *family.Person) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// =============================================================================
// PersonListModel - Interactive person selection
// =============================================================================

// PersonListModel is the bubbletea model for browsing a tree's persons.
type PersonListModel struct {
	Tree     *graph.Tree
	Persons  []family.Person
	Cursor   int
	Selected *family.Person
	Height   int
	Offset   int
}

// NewPersonListModel creates a list model with persons sorted by name
// then ID.
func NewPersonListModel(t *graph.Tree) PersonListModel {
	persons := slices.Clone(t.Persons)
	slices.SortStableFunc(persons, func(a, b family.Person) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return family.CompareID(a.ID, b.ID)
	})
	return PersonListModel{
		Tree:    t,
		Persons: persons,
		Height:  15,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Persons)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &m.Persons[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Tree.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Persons))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Persons[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		born := "—"
		if p.BirthDate != nil {
			born = fmt.Sprintf("%d", p.BirthDate.Year())
		}
		gender := "—"
		if p.Gender != "" && p.Gender != family.GenderUnknown {
			gender = string(p.Gender)
		}

		rows = append(rows, []string{
			cursor, p.ID, displayName(&p), gender, born,
			fmt.Sprintf("%d", len(p.ChildIDs)),
			fmt.Sprintf("%d", len(p.SpouseIDs)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Gender", "Born", "Children", "Spouses").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Persons))))

	return b.String()
}
