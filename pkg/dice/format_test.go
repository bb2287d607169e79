package dice

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		results []int
		want    string
	}{
		{name: "single", results: []int{4}, want: "You rolled: 4"},
		{name: "pair", results: []int{3, 5}, want: "You rolled: 3 and 5 (total: 8)"},
		{name: "many", results: []int{2, 2, 6}, want: "You rolled: 2, 2, 6 (total: 10)"},
		{name: "large die", results: []int{20, 1, 13, 7}, want: "You rolled: 20, 1, 13, 7 (total: 41)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.results)
			if err != nil {
				t.Fatalf("Format(%v) error: %v", tt.results, err)
			}
			if got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.results, got, tt.want)
			}
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	in := []int{6, 1, 3}
	first, _ := Format(in)
	_, _ = Format([]int{1})
	_, _ = Format([]int{5, 5})
	second, _ := Format(in)
	if first != second {
		t.Errorf("Format not deterministic: %q vs %q", first, second)
	}
	if in[0] != 6 || in[1] != 1 || in[2] != 3 {
		t.Errorf("Format mutated its input: %v", in)
	}
}

func TestResult_String(t *testing.T) {
	if got := (Result{3, 5}).String(); got != "You rolled: 3 and 5 (total: 8)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Result{}).String(); got != "" {
		t.Errorf("empty String() = %q, want empty", got)
	}
}
