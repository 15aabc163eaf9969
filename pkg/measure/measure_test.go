package measure

import "testing"

func TestCells(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		wantW int
		wantH int
	}{
		{"ascii", "hello", 5, 1},
		{"multiline", "ab\nlonger", 6, 2},
		{"wide runes", "日本", 4, 1},
		{"ansi", "\x1b[1mbold\x1b[0m", 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Cells(tt.in)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Cells(%q) = %d,%d; want %d,%d", tt.in, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestText_Measure(t *testing.T) {
	m := NewText(map[string]string{
		"title": "Settings",
		"empty": "",
	}, WithCellSize(1, 1))

	w, h, ok := m.Measure("title")
	if !ok || w != 8 || h != 1 {
		t.Errorf("Measure(title) = %v,%v,%v; want 8,1,true", w, h, ok)
	}
	if _, _, ok := m.Measure("empty"); ok {
		t.Error("Measure(empty) reported a size")
	}
	if _, _, ok := m.Measure("missing"); ok {
		t.Error("Measure(missing) reported a size")
	}
}

func TestText_DefaultCellSize(t *testing.T) {
	m := NewText(map[string]string{"x": "ab"}, WithCellSize(0, -1))
	w, h, _ := m.Measure("x")
	if w != 2*DefaultCellWidth || h != DefaultLineHeight {
		t.Errorf("Measure = %v,%v; want defaults", w, h)
	}
}
