package render

import (
	"io"
	"strings"
)

const clearScreen = "\x1b[H\x1b[2J"

// TextPanel paints frames on a character terminal such as /dev/tty1.
type TextPanel struct {
	w io.Writer
}

// NewTextPanel creates a panel that writes to w.
func NewTextPanel(w io.Writer) *TextPanel {
	return &TextPanel{w: w}
}

// Show replaces the screen contents with lines.
func (p *TextPanel) Show(lines []string) error {
	var b strings.Builder
	b.WriteString(clearScreen)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Clear blanks the screen.
func (p *TextPanel) Clear() error {
	_, err := io.WriteString(p.w, clearScreen)
	return err
}

// FakePanel records frames for test assertions.
type FakePanel struct {
	Frames  [][]string
	Clears  int
	ShowErr error
}

// Show records the frame.
func (f *FakePanel) Show(lines []string) error {
	if f.ShowErr != nil {
		return f.ShowErr
	}
	f.Frames = append(f.Frames, append([]string(nil), lines...))
	return nil
}

// Clear records the call.
func (f *FakePanel) Clear() error {
	f.Clears++
	return nil
}

// Last returns the most recent frame, or nil.
func (f *FakePanel) Last() []string {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}
