package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/taskorder/pkg/schedule"
)

var viewerTasks = []schedule.Task{
	{Title: "Deploy", EstimatedHours: 2, Dependencies: []string{"Build"}},
	{Title: "Build", EstimatedHours: 4, DueDate: "2024-06-01"},
	{Title: "Docs", EstimatedHours: 1},
}

func TestNewOrderModel(t *testing.T) {
	m := NewOrderModel(viewerTasks, []string{"Build", "Docs", "Deploy"})

	if len(m.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.Rows))
	}
	want := []orderRow{
		{Title: "Build", Stage: 1, Hours: 4, Due: "2024-06-01"},
		{Title: "Docs", Stage: 1, Hours: 1},
		{Title: "Deploy", Stage: 2, Hours: 2, Deps: []string{"Build"}},
	}
	for i, w := range want {
		got := m.Rows[i]
		if got.Title != w.Title || got.Stage != w.Stage || got.Hours != w.Hours || got.Due != w.Due || len(got.Deps) != len(w.Deps) {
			t.Errorf("row %d = %+v, want %+v", i, got, w)
		}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOrderModelNavigation(t *testing.T) {
	var m tea.Model = NewOrderModel(viewerTasks, []string{"Build", "Docs", "Deploy"})

	steps := []struct {
		key    string
		cursor int
	}{
		{"up", 0},
		{"down", 1},
		{"j", 2},
		{"down", 2},
		{"k", 1},
		{"g", 0},
		{"G", 2},
	}
	for _, s := range steps {
		m, _ = m.Update(key(s.key))
		if got := m.(OrderModel).Cursor; got != s.cursor {
			t.Errorf("after %q cursor = %d, want %d", s.key, got, s.cursor)
		}
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestOrderModelScrolls(t *testing.T) {
	tasks := make([]schedule.Task, 10)
	order := make([]string, 10)
	for i := range tasks {
		tasks[i] = schedule.Task{Title: string(rune('A' + i))}
		order[i] = tasks[i].Title
	}

	m := NewOrderModel(tasks, order)
	m.Height = 3
	var model tea.Model = m
	for i := 0; i < 5; i++ {
		model, _ = model.Update(key("down"))
	}
	got := model.(OrderModel)
	if got.Cursor != 5 || got.Offset != 3 {
		t.Errorf("cursor/offset = %d/%d, want 5/3", got.Cursor, got.Offset)
	}
}

func TestOrderModelView(t *testing.T) {
	view := NewOrderModel(viewerTasks, []string{"Build", "Docs", "Deploy"}).View()

	for _, want := range []string{"Recommended Order", "Task", "Depends on", "Build", "2024-06-01", "4h", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
