package main

import "github.com/fatih/color"

// errorColor builds the red error-message color, honoring the
// persistent --color flag (auto|on|off), matching the teacher's
// version.go convention of pre-built *color.Color values.
func errorColor(mode string) *color.Color {
	c := color.New(color.FgRed, color.Bold)
	switch mode {
	case "off":
		c.DisableColor()
	case "on":
		c.EnableColor()
	}
	return c
}
