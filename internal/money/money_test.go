package money

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  float64
		isErr bool
	}{
		{name: "comma separator", in: "45,50", want: 45.5},
		{name: "dot separator", in: "45.50", want: 45.5},
		{name: "surrounding space", in: "  12,3 ", want: 12.3},
		{name: "float passthrough", in: 19.999, want: 20.0},
		{name: "integer", in: 7, want: 7},
		{name: "garbage", in: "abc", isErr: true},
		{name: "empty string", in: "", isErr: true},
		{name: "nan", in: math.NaN(), isErr: true},
		{name: "inf", in: math.Inf(1), isErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.isErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("Parse(%v) err = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%v) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3.14159); got != 3.14 {
		t.Errorf("Round2(3.14159) = %v, want 3.14", got)
	}
	if got := Round2(4.9 + 1.2 + 15); got != 21.1 {
		t.Errorf("Round2 sum = %v, want 21.1", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-3.5); got != 0 {
		t.Errorf("Clamp(-3.5) = %v, want 0", got)
	}
	if got := Clamp("boom"); got != 0 {
		t.Errorf("Clamp(garbage) = %v, want 0", got)
	}
	if got := Clamp(10.009); got != 10.01 {
		t.Errorf("Clamp(10.009) = %v, want 10.01", got)
	}
}
