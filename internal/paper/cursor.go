package paper

import (
	"fmt"
	"strconv"
	"strings"
)

// Cursor returns the current cursor hint. An empty hint means the host
// default.
func (p *Paper) Cursor() string { return p.cursor }

// SetCursor sets the cursor hint shown over the surface. The optional
// hotspot must be given as both coordinates or not at all. The hint is
// rendered as "<cursor>[ x y],default".
func (p *Paper) SetCursor(cursor string, hotspot ...int) error {
	if len(hotspot) != 0 && len(hotspot) != 2 {
		return fmt.Errorf("set cursor: got %d hotspot coordinates, want 0 or 2: %w", len(hotspot), ErrInvariantViolation)
	}
	var b strings.Builder
	b.WriteString(cursor)
	if len(hotspot) == 2 {
		b.WriteString(" " + strconv.Itoa(hotspot[0]) + " " + strconv.Itoa(hotspot[1]))
	}
	b.WriteString(",default")
	p.setCursor(b.String())
	return nil
}

// SetCursorFromURL sets an image cursor loaded from u.
func (p *Paper) SetCursorFromURL(u string, hotspot ...int) error {
	return p.SetCursor("url("+encodeURI(u)+")", hotspot...)
}

// RestoreCursor clears the cursor hint.
func (p *Paper) RestoreCursor() {
	p.setCursor("")
}

func (p *Paper) setCursor(c string) {
	p.cursor = c
	if p.OnCursorChanged != nil {
		p.OnCursorChanged(c)
	}
}

// encodeURI escapes every byte outside the URI reserved and unreserved
// sets, leaving an already formed URL readable.
func encodeURI(s string) string {
	const keep = ";,/?:@&=+$-_.!~*'()#"
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', strings.IndexByte(keep, c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}
