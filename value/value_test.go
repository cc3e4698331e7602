package value

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equals nil", Nil, Nil, true},
		{"different kinds", Number(1), Bool(true), false},
		{"equal numbers", Number(3.5), Number(3.5), true},
		{"unequal numbers", Number(3.5), Number(4), false},
		{"equal bools", Bool(true), Bool(true), true},
		{"unequal bools", Bool(true), Bool(false), false},
		{"equal handles", Obj(1), Obj(1), true},
		{"unequal handles", Obj(1), Obj(2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsFalsey(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", Nil, true},
		{"false", Bool(false), true},
		{"true", Bool(true), false},
		{"zero", Number(0), false},
		{"obj", Obj(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFalsey(); got != tt.want {
				t.Errorf("IsFalsey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{-42, "-42"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(2), "2"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
