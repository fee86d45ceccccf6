package stats

import "testing"

func TestRenderTableAlignsColumns(t *testing.T) {
	cols := []column{
		{title: "Dictionary"},
		{title: "Hits", numeric: true},
		{title: "Accuracy", numeric: true},
	}
	rows := [][]string{
		{"english.num", "12", "97.50%"},
		{"ru.num", "3"},
	}

	lines := renderTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Dictionary  Hits Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "english.num   12   97.50%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "ru.num         3" {
		t.Fatalf("missing trailing cell must trim, got %q", lines[2])
	}
}

func TestRenderTableWideLabels(t *testing.T) {
	lines := renderTable([]column{{title: "Dict"}, {title: "N", numeric: true}}, [][]string{
		{"日本語.num", "1"},
		{"en.num", "22"},
	})
	if displayWidth(lines[1]) != displayWidth(lines[2]) {
		t.Fatalf("rows must share a display width: %q vs %q", lines[1], lines[2])
	}
	if got := displayWidth("日本"); got != 4 {
		t.Fatalf("expected width 4, got %d", got)
	}
}
