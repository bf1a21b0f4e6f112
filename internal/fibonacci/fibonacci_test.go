package fibonacci

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSequence(t *testing.T) {
	tests := []struct {
		n    int
		want []uint64
	}{
		{-3, []uint64{}},
		{0, []uint64{}},
		{1, []uint64{0}},
		{2, []uint64{0, 1}},
		{5, []uint64{0, 1, 1, 2, 3}},
		{10, []uint64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}},
	}
	for _, tt := range tests {
		got, err := Sequence(tt.n)
		if err != nil {
			t.Fatalf("Sequence(%d) error: %v", tt.n, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Sequence(%d) mismatch (-want +got):\n%s", tt.n, diff)
		}
	}
}

func TestSequence_LargestTerm(t *testing.T) {
	seq, err := Sequence(MaxTerms)
	if err != nil {
		t.Fatalf("Sequence(%d) error: %v", MaxTerms, err)
	}
	if last := seq[len(seq)-1]; last != 12200160415121876738 {
		t.Fatalf("term %d = %d, want 12200160415121876738", MaxTerms, last)
	}
}

func TestSequence_Overflow(t *testing.T) {
	if _, err := Sequence(MaxTerms + 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "5\n", promptText + "Fibonacci sequence:\n0 1 1 2 3\n"},
		{"no trailing newline", " 3 ", promptText + "Fibonacci sequence:\n0 1 1\n"},
		{"zero", "0\n", promptText + "Fibonacci sequence:\n\n"},
		{"not a number", "abc\n", promptText + invalidInput + "\n"},
		{"negative", "-2\n", promptText + invalidInput + "\n"},
		{"empty input", "", promptText + invalidInput + "\n"},
		{"too many terms", "200\n", promptText + "Please enter at most 94 terms.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			if err := Prompt(strings.NewReader(tt.input), &out); err != nil {
				t.Fatalf("Prompt error: %v", err)
			}
			if out.String() != tt.want {
				t.Fatalf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}
