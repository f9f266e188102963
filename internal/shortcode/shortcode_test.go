package shortcode

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeKnownValues(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{1, "1"},
		{9, "9"},
		{10, "a"},
		{61, "Z"},
		{62, "10"},
		{3843, "ZZ"},
		{math.MaxInt64, "aZl8N0y58M7"},
	}
	for _, tt := range tests {
		if got := Encode(tt.id); got != tt.want {
			t.Errorf("Encode(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	seen := make(map[string]int64)
	for id := int64(1); id <= 20000; id++ {
		code := Encode(id)
		if prev, dup := seen[code]; dup {
			t.Fatalf("Encode(%d) collides with Encode(%d) = %q", id, prev, code)
		}
		seen[code] = id

		got, err := Decode(code)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", code, err)
		}
		if got != id {
			t.Fatalf("Decode(Encode(%d)) = %d", id, got)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"", ErrEmpty},
		{"abc-def", ErrInvalid},
		{"0", ErrInvalid},
		{"01", ErrInvalid},
		{"ZZZZZZZZZZZ", ErrOverflow},
		{"123456789012", ErrOverflow},
		{"favicon.ico", ErrInvalid},
	}
	for _, tt := range tests {
		if _, err := Decode(tt.code); !errors.Is(err, tt.want) {
			t.Errorf("Decode(%q) error = %v, want %v", tt.code, err, tt.want)
		}
	}
}

func TestEncodePanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Encode(0) should panic")
		}
	}()
	Encode(0)
}

func TestReservedWordsGetAlternateSpelling(t *testing.T) {
	for word := range reserved {
		id, err := decode(word)
		if err != nil {
			t.Fatalf("decode(%q) error = %v", word, err)
		}

		code := Encode(id)
		if code != "0"+word {
			t.Errorf("Encode(%d) = %q, want %q", id, code, "0"+word)
		}
		got, err := Decode(code)
		if err != nil || got != id {
			t.Errorf("Decode(%q) = %d, %v; want %d", code, got, err, id)
		}
		if _, err := Decode(word); !errors.Is(err, ErrInvalid) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalid", word, err)
		}
		// Neighbours keep their plain spelling.
		if c := Encode(id + 1); c[0] == '0' {
			t.Errorf("Encode(%d) = %q, unexpected leading zero", id+1, c)
		}
	}

	if _, err := Decode("0abc"); !errors.Is(err, ErrInvalid) {
		t.Errorf("Decode(0abc) error = %v, want ErrInvalid", err)
	}
}
