package core

import "testing"

func TestColorANSICodes(t *testing.T) {
	if ColorDefault.ANSI() != "" {
		t.Errorf("ColorDefault.ANSI() = %q, expected empty", ColorDefault.ANSI())
	}
	if ColorBrightGreen.ANSI() != "10" {
		t.Errorf("ColorBrightGreen.ANSI() = %q, expected \"10\"", ColorBrightGreen.ANSI())
	}
	if ColorOrange.ANSI() != "208" {
		t.Errorf("ColorOrange.ANSI() = %q, expected \"208\"", ColorOrange.ANSI())
	}
	if Color(200).ANSI() != "" {
		t.Error("out-of-range colors should map to the terminal default")
	}

	// Every named color except the default carries a code.
	for c := ColorRed; c < ColorCount; c++ {
		if c.ANSI() == "" {
			t.Errorf("color %d has no ANSI code", c)
		}
	}
}
