// Package shortcode maps bookmark ids to compact public codes and back.
//
// The mapping is base62 over positive ids, so it is a bijection: two
// bookmarks can never share a code and resolution needs no extra index
// beyond the one the store keeps on short_url. Codes that would spell a
// path served next to short links get a leading '0', a spelling plain
// base62 never produces.
package shortcode

import (
	"errors"
	"strings"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = int64(len(alphabet))

// MaxLen is the length of the code for math.MaxInt64.
const MaxLen = 11

// reserved are the root paths that shadow /{short_url} in the router.
var reserved = map[string]struct{}{
	"healthz": {},
	"readyz":  {},
	"infra":   {},
	"metrics": {},
}

var (
	ErrEmpty    = errors.New("shortcode: empty code")
	ErrInvalid  = errors.New("shortcode: invalid character")
	ErrOverflow = errors.New("shortcode: value out of range")
)

// Reserved reports whether code collides with a root path.
func Reserved(code string) bool {
	_, ok := reserved[code]
	return ok
}

// Encode returns the code for id. It panics on id <= 0; stores only hand out positive ids.
func Encode(id int64) string {
	if id <= 0 {
		panic("shortcode: id must be positive")
	}
	var buf [MaxLen]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = alphabet[id%base]
		id /= base
	}
	code := string(buf[i:])
	if Reserved(code) {
		return "0" + code
	}
	return code
}

// Decode is the inverse of Encode. Every id has exactly one accepted spelling.
func Decode(code string) (int64, error) {
	if code == "" {
		return 0, ErrEmpty
	}
	if code[0] == '0' && Reserved(code[1:]) {
		return decode(code[1:])
	}
	if Reserved(code) {
		return 0, ErrInvalid
	}
	id, err := decode(code)
	if err != nil {
		return 0, err
	}
	// Leading zeros would give a second spelling of the same id.
	if code[0] == '0' {
		return 0, ErrInvalid
	}
	return id, nil
}

func decode(code string) (int64, error) {
	if len(code) > MaxLen {
		return 0, ErrOverflow
	}
	var id int64
	for _, c := range code {
		d := strings.IndexRune(alphabet, c)
		if d < 0 {
			return 0, ErrInvalid
		}
		if id > (1<<63-1-int64(d))/base {
			return 0, ErrOverflow
		}
		id = id*base + int64(d)
	}
	if id == 0 {
		return 0, ErrInvalid
	}
	return id, nil
}

// Valid reports whether code is the canonical encoding of some id.
func Valid(code string) bool {
	_, err := Decode(code)
	return err == nil
}
