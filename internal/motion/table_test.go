package motion

import (
	"testing"
)

func TestNewTable(t *testing.T) {
	testCases := []struct {
		name    string
		columns []string
		wantErr bool
	}{
		{"time first", []string{"Time", "X"}, false},
		{"time only", []string{"Time"}, false},
		{"no columns", nil, true},
		{"time not first", []string{"X", "Time"}, true},
		{"duplicate column", []string{"Time", "X", "X"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.columns)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewTable(%v) error = %v, wantErr %v", tc.columns, err, tc.wantErr)
			}
		})
	}
}

func TestTable_AppendAndSlice(t *testing.T) {
	table, err := NewTable([]string{"Time", "X", "Y"})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err = table.AppendRow([]float64{float64(i), float64(i * 10), float64(i * 100)}); err != nil {
			t.Fatalf("Failed to append row %d: %v", i, err)
		}
	}
	if err = table.AppendRow([]float64{1, 2}); err == nil {
		t.Error("Expected error for short row")
	}

	if table.Len() != 5 {
		t.Fatalf("Expected 5 rows, got %d", table.Len())
	}

	chunk := table.Slice(1, 4)
	if chunk.Len() != 3 {
		t.Fatalf("Expected chunk of 3 rows, got %d", chunk.Len())
	}
	if chunk.First() != 1 || chunk.Last() != 3 {
		t.Errorf("Expected chunk bounds [1, 3], got [%v, %v]", chunk.First(), chunk.Last())
	}

	y, ok := chunk.Column("Y")
	if !ok {
		t.Fatal("Expected chunk to carry column Y")
	}
	if y[2] != 300 {
		t.Errorf("Expected Y[2] = 300, got %v", y[2])
	}
	if _, ok = chunk.Column("Z"); ok {
		t.Error("Expected no column Z")
	}

	// Appending to a chunk column must not clobber the table.
	_ = append(y, -1)
	if full, _ := table.Column("Y"); full[4] != 400 {
		t.Errorf("Expected table Y[4] = 400, got %v", full[4])
	}
}

func TestTimeWindow(t *testing.T) {
	w := TimeWindow{Initial: 1, Final: 2}

	testCases := []struct {
		t    float64
		want bool
	}{
		{0.999, false},
		{1, true},
		{1.5, true},
		{2, true},
		{2.001, false},
	}
	for _, tc := range testCases {
		if got := w.Contains(tc.t); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}

	if !w.Valid() || !(TimeWindow{Initial: 3, Final: 3}).Valid() {
		t.Error("Expected ordered windows to be valid")
	}
	if (TimeWindow{Initial: 3, Final: 2}).Valid() {
		t.Error("Expected inverted window to be invalid")
	}
}
