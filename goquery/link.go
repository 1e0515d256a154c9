package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/heads"
)

// LinkLeaders sets the href of each leader to that of the first anchor whose
// text equals the leader's name. Leaders without a matching anchor keep an
// empty href.
func LinkLeaders(leaders []*heads.Leader, anchors *goquery.Selection) {
	linkLeaders(leaders, anchors, nil)
}

// linkLeaders is LinkLeaders that leaves the leaders in skip untouched.
func linkLeaders(leaders []*heads.Leader, anchors *goquery.Selection, skip linkSet) {
	for _, l := range leaders {
		if skip[l] {
			continue
		}
		anchors.EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if strings.TrimSpace(a.Text()) != l.Name {
				return true
			}
			l.Href = a.AttrOr("href", "")
			return false
		})
	}
}
