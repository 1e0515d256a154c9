package goquery

import (
	"fmt"
	"strconv"
	"strings"
)

// Background colours the source table uses to mark the kind of office.
const (
	ColorExecutiveAdministrator = "rgb(158,255,158)"
	ColorCeremonial             = "rgb(204,238,255)"
)

type cellStyle struct {
	executive  bool
	ceremonial bool
}

// classifyColor maps a normalised colour to cell flags. It reports false for
// a non-empty colour it does not recognise.
func classifyColor(color string) (cellStyle, bool) {
	switch color {
	case "":
		return cellStyle{}, true
	case ColorExecutiveAdministrator:
		return cellStyle{executive: true}, true
	case ColorCeremonial:
		return cellStyle{ceremonial: true}, true
	}
	return cellStyle{}, false
}

// BackgroundColor returns the background colour declared in an inline style
// attribute, normalised to "rgb(r,g,b)" where possible. As in CSS, the last
// declaration wins, and a background shorthand without a colour resets it.
// Returns "" when no colour is declared.
func BackgroundColor(style string) string {
	var color string
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		switch strings.ToLower(strings.TrimSpace(prop)) {
		case "background-color":
			color = normalizeColor(value)
		case "background":
			color = shorthandColor(value)
		}
	}
	return color
}

// shorthandColor picks the colour out of a background shorthand value.
func shorthandColor(value string) string {
	lower := strings.ToLower(value)
	if i := strings.Index(lower, "rgb"); i >= 0 {
		if j := strings.Index(lower[i:], ")"); j >= 0 {
			return normalizeColor(lower[i : i+j+1])
		}
	}
	fields := strings.Fields(lower)
	for _, f := range fields {
		if strings.HasPrefix(f, "#") {
			return normalizeColor(f)
		}
	}
	if len(fields) == 1 && isColorName(fields[0]) {
		return normalizeColor(fields[0])
	}
	return ""
}

// isColorName reports whether word could be a named colour rather than an
// image, position or CSS-wide keyword.
func isColorName(word string) bool {
	switch word {
	case "none", "initial", "inherit", "unset", "revert":
		return false
	}
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return word != ""
}

// normalizeColor lower-cases a colour, strips spaces from rgb() notation and
// converts hex notation to rgb().
func normalizeColor(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.HasPrefix(v, "rgb"):
		return strings.Join(strings.Fields(v), "")
	case strings.HasPrefix(v, "#"):
		if rgb, ok := hexToRGB(v[1:]); ok {
			return rgb
		}
	}
	return v
}

func hexToRGB(hex string) (string, bool) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", n>>16&0xff, n>>8&0xff, n&0xff), true
}
