package domain

import "testing"

func TestTrimOrNil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{name: "empty", input: "", want: nil},
		{name: "only spaces", input: "   ", want: nil},
		{name: "tabs and newlines", input: "\t\n ", want: nil},
		{name: "trimmed", input: "  5153  ", want: strPtr("5153")},
		{name: "inner spaces kept", input: "Mesa Boogie", want: strPtr("Mesa Boogie")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TrimOrNil(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("TrimOrNil(%q) = %q, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("TrimOrNil(%q) = nil, want %q", tt.input, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("TrimOrNil(%q) = %q, want %q", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  A@X.com "); got != "a@x.com" {
		t.Errorf("NormalizeEmail = %q, want a@x.com", got)
	}
}

func strPtr(s string) *string { return &s }
