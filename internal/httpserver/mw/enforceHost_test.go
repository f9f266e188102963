package mw

import "testing"

func TestHostRules(t *testing.T) {
	rules := newHostRules([]string{"bookmarks.example.com", "*.example.com", " ", "Links.Example.ORG."})

	tests := []struct {
		host string
		want bool
	}{
		{"bookmarks.example.com", true},
		{"a.example.com", true},
		{"a.b.example.com", true},
		{"example.com", false},
		{"evilexample.com", false},
		{"other.com", false},
		{"links.example.org", true},
		{"LINKS.example.org.", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := rules.match(tt.host); got != tt.want {
			t.Errorf("match(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}

	if !newHostRules([]string{"", "  "}).empty() {
		t.Error("blank patterns should give empty rules")
	}
}
