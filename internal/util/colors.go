package util

import "github.com/fatih/color"

var colorsOptions = map[string]color.Attribute{
	"red":       color.FgHiRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"cyan":      color.FgCyan,
	"faint":     color.Faint,
	"underline": color.Underline,
	"bold":      color.Bold,
}

var statusColors = map[string]string{
	"active":   "green",
	"inactive": "faint",
	"redeemed": "cyan",
	"expired":  "red",
	"blocked":  "red",
}

func ColorOutput(text string, colorOptions ...string) string {
	attributes := []color.Attribute{}
	for _, option := range colorOptions {
		if o, ok := colorsOptions[option]; ok {
			attributes = append(attributes, o)
		}
	}
	c := color.New(attributes...)
	return c.Sprint(text)
}

// ColorStatus colors a record status. Unknown statuses are returned as is.
func ColorStatus(status string) string {
	option, ok := statusColors[status]
	if !ok {
		return status
	}
	return ColorOutput(status, option)
}
