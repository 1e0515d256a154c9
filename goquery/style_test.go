package goquery_test

import (
	"testing"

	hgoquery "github.com/fwojciec/heads/goquery"
	"github.com/stretchr/testify/assert"
)

func TestBackgroundColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"empty", "", ""},
		{"no background", "text-align:center", ""},
		{"rgb with spaces", "background-color: rgb(158, 255, 158)", hgoquery.ColorExecutiveAdministrator},
		{"six digit hex", "background-color:#CCEEFF", hgoquery.ColorCeremonial},
		{"three digit hex", "background-color:#fff", "rgb(255,255,255)"},
		{"important", "background-color:#9eff9e !important", hgoquery.ColorExecutiveAdministrator},
		{"shorthand", "background: rgb(204,238,255) none", hgoquery.ColorCeremonial},
		{"shorthand hex", "background:#9eff9e no-repeat", hgoquery.ColorExecutiveAdministrator},
		{"named colour", "background:white", "white"},
		{"later longhand wins", "background:#fff;background-color:#cef", hgoquery.ColorCeremonial},
		{"later shorthand wins", "background-color:#cef;background:#9eff9e", hgoquery.ColorExecutiveAdministrator},
		{"last background-color wins", "background-color:#cef; background-color: rgb(158,255,158)", hgoquery.ColorExecutiveAdministrator},
		{"shorthand without colour resets", "background-color:#cef;background:none", ""},
		{"shorthand image only", "background:url(flag.png)", ""},
		{"bad hex kept", "background-color:#12", "#12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, hgoquery.BackgroundColor(tt.style))
		})
	}
}
