package model

import "testing"

func TestParseTierGroup(t *testing.T) {
	tests := []struct {
		in   string
		want TierGroup
	}{
		{"sa", TierTop},
		{"SA", TierTop},
		{" sa ", TierTop},
		{"all", TierAll},
		{"", TierAll},
		{"garbage", TierAll},
	}

	for _, tt := range tests {
		if got := ParseTierGroup(tt.in); got != tt.want {
			t.Errorf("ParseTierGroup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTierGroupFromAPIParam(t *testing.T) {
	if got := TierGroupFromAPIParam("1"); got != TierTop {
		t.Errorf("param 1 should map to %q, got %q", TierTop, got)
	}
	for _, in := range []string{"all", "", "2", "sa"} {
		if got := TierGroupFromAPIParam(in); got != TierAll {
			t.Errorf("param %q should map to %q, got %q", in, TierAll, got)
		}
	}
}

func TestTierGroupAccepts(t *testing.T) {
	tests := []struct {
		group TierGroup
		tier  string
		want  bool
	}{
		{TierTop, "s", true},
		{TierTop, "S", true},
		{TierTop, "a", true},
		{TierTop, "b", false},
		{TierTop, "", false},
		{TierAll, "d", true},
		{TierAll, "", true},
	}

	for _, tt := range tests {
		if got := tt.group.Accepts(tt.tier); got != tt.want {
			t.Errorf("%q.Accepts(%q) = %v, want %v", tt.group, tt.tier, got, tt.want)
		}
	}
}
