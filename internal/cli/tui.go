package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/taskorder/pkg/schedule"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// OrderModel - Interactive order viewer
// =============================================================================

// orderRow is one task in recommended order with its display columns.
type orderRow struct {
	Title string
	Stage int
	Hours int
	Due   string
	Deps  []string
}

// OrderModel is the bubbletea model for browsing a resolved order.
type OrderModel struct {
	Rows   []orderRow
	Cursor int
	Height int
	Offset int
}

// NewOrderModel creates a viewer for order. Tasks supply the payload columns;
// stages are omitted when the tasks cannot be planned.
func NewOrderModel(tasks []schedule.Task, order []string) OrderModel {
	byTitle := make(map[string]schedule.Task, len(tasks))
	for _, t := range tasks {
		byTitle[t.Title] = t
	}

	stageOf := map[string]int{}
	if plan, err := schedule.NewPlan(tasks); err == nil {
		for i, stage := range plan.Stages {
			for _, title := range stage {
				stageOf[title] = i + 1
			}
		}
	}

	rows := make([]orderRow, 0, len(order))
	for _, title := range order {
		t := byTitle[title]
		rows = append(rows, orderRow{
			Title: title,
			Stage: stageOf[title],
			Hours: t.EstimatedHours,
			Due:   t.DueDate,
			Deps:  t.Dependencies,
		})
	}

	return OrderModel{
		Rows:   rows,
		Height: 15,
	}
}

func (m OrderModel) Init() tea.Cmd {
	return nil
}

func (m OrderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Rows); n > 0 {
				m.Cursor = n - 1
				if m.Cursor >= m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m OrderModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Recommended Order"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		stage := "—"
		if r.Stage > 0 {
			stage = strconv.Itoa(r.Stage)
		}
		due := r.Due
		if due == "" {
			due = "—"
		}
		deps := "—"
		if len(r.Deps) > 0 {
			deps = strings.Join(r.Deps, ", ")
		}

		rows = append(rows, []string{cursor + strconv.Itoa(i+1), r.Title, stage, fmt.Sprintf("%dh", r.Hours), due, deps})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Task", "Stage", "Hours", "Due", "Depends on").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 1 {
				return listNormalStyle
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// runOrderViewer shows the order in the interactive viewer until the user quits.
func runOrderViewer(tasks []schedule.Task, order []string) error {
	p := tea.NewProgram(NewOrderModel(tasks, order))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive viewer: %w", err)
	}
	return nil
}
