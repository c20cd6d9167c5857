package event

import "testing"

func TestAdmits(t *testing.T) {
	tests := []struct {
		name string
		sub  Audience
		pub  Audience
		want bool
	}{
		{"broad sub, broad pub", Broad(), Broad(), true},
		{"broad sub, narrow pub", Broad(), Narrow("page-1"), true},
		{"narrow sub, same context", Narrow("page-1"), Narrow("page-1"), true},
		{"narrow sub, other context", Narrow("page-1"), Narrow("page-2"), false},
		{"narrow sub, broad pub", Narrow("page-1"), Broad(), false},
		{"zero value is broad", Audience{}, Narrow("page-9"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Admits(tt.sub, tt.pub); got != tt.want {
				t.Errorf("Admits(%v, %v) = %v, want %v", tt.sub, tt.pub, got, tt.want)
			}
		})
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		input   string
		want    Scope
		wantErr bool
	}{
		{"", ScopeBroad, false},
		{"broad", ScopeBroad, false},
		{"APPLICATION", ScopeBroad, false},
		{" narrow ", ScopeNarrow, false},
		{"active", ScopeNarrow, false},
		{"global", ScopeBroad, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseScope(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScope(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseScope(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAudienceString(t *testing.T) {
	if got := Narrow("p1").String(); got != "narrow:p1" {
		t.Errorf("got %q", got)
	}
	if got := Broad().String(); got != "broad" {
		t.Errorf("got %q", got)
	}
}
