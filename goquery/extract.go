package goquery

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/heads"
)

// run matches a stretch of name or title text: letters, marks, digits,
// underscores, apostrophes, hyphens and spaces.
const run = `[\p{L}\p{M}\p{N}_'’ -]+`

var (
	titleNameRe   = regexp.MustCompile(`(` + run + `)\x{00A0}\x{2013} (` + run + `)`)
	nameAsTitleRe = regexp.MustCompile(`(` + run + `) \(as (` + run + `)\)`)
	membersRe     = regexp.MustCompile(`Members: (` + run + `) \((` + run + `)\)`)
	memberRe      = regexp.MustCompile(`(` + run + `) \((` + run + `)\)`)
)

// MemberTitle is the title given to list items that carry no title.
const MemberTitle = "Member"

// linkSet holds the leaders whose href was taken from their own list item.
type linkSet map[*heads.Leader]bool

// matcher recognises one textual shape of a cell.
type matcher struct {
	name  string
	match func(cell *goquery.Selection) ([]*heads.Leader, linkSet)
}

// matchers are tried in order; the first one that yields leaders wins.
var matchers = []matcher{
	{name: "title-name", match: func(cell *goquery.Selection) ([]*heads.Leader, linkSet) { return MatchTitleName(cell.Text()), nil }},
	{name: "name-as-title", match: func(cell *goquery.Selection) ([]*heads.Leader, linkSet) { return MatchNameAsTitle(cell.Text()), nil }},
	{name: "member-list", match: matchMemberList},
}

// Extractor turns a table cell into leaders.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{logger: logger}
}

// Extract returns the leaders named in cell. The state name is only used
// for diagnostics; cells met before any state is known are still
// extracted. Cells matching no known shape yield no leaders.
func (e *Extractor) Extract(cell *goquery.Selection, state string) []*heads.Leader {
	if state == "" {
		e.logger.Warn("orphaned cell: no state name established")
	}

	style := e.classify(cell, state)

	var (
		leaders []*heads.Leader
		linked  linkSet
		shape   matcher
	)
	for _, m := range matchers {
		if leaders, linked = m.match(cell); len(leaders) > 0 {
			shape = m
			break
		}
	}
	if len(leaders) == 0 {
		e.logger.Warn("unable to process cell", "state", state, "html", outerHTML(cell))
		return nil
	}

	linkLeaders(leaders, cell.Find("a"), linked)
	for _, l := range leaders {
		l.ExecutiveAdministrator = style.executive
		l.Ceremonial = style.ceremonial
	}

	e.logger.Debug("cell entries",
		"state", state,
		"shape", shape.name,
		"count", len(leaders),
	)
	return leaders
}

func (e *Extractor) classify(cell *goquery.Selection, state string) cellStyle {
	color := BackgroundColor(cell.AttrOr("style", ""))
	style, known := classifyColor(color)
	if !known {
		e.logger.Warn("unknown cell background", "state", state, "color", color)
	}
	return style
}

// MatchTitleName matches "title – name" pairs, any number per text.
func MatchTitleName(text string) []*heads.Leader {
	var leaders []*heads.Leader
	for _, m := range titleNameRe.FindAllStringSubmatch(text, -1) {
		leaders = appendLeader(leaders, m[2], m[1])
	}
	return leaders
}

// MatchNameAsTitle matches "name (as title)", any number per text.
func MatchNameAsTitle(text string) []*heads.Leader {
	var leaders []*heads.Leader
	for _, m := range nameAsTitleRe.FindAllStringSubmatch(text, -1) {
		leaders = appendLeader(leaders, m[1], m[2])
	}
	return leaders
}

// MatchMemberList matches a bulleted list of council members. The first item
// reads "Members: name (title)" and links the item's second anchor; every
// other item reads "name (title)" and links the item's first anchor. Items
// that do not match get MemberTitle and their full text as name, so each
// item yields exactly one leader.
func MatchMemberList(cell *goquery.Selection) []*heads.Leader {
	leaders, _ := matchMemberList(cell)
	return leaders
}

// matchMemberList is MatchMemberList that also reports which leaders got
// their href from their own item.
func matchMemberList(cell *goquery.Selection) ([]*heads.Leader, linkSet) {
	items := cell.Find("ul li")
	if items.Length() == 0 {
		return nil, nil
	}

	leaders := make([]*heads.Leader, 0, items.Length())
	linked := make(linkSet)
	items.Each(func(i int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		links := item.Find("a")

		re, linkIndex := memberRe, 0
		if i == 0 {
			re, linkIndex = membersRe, 1
		}

		l := &heads.Leader{Name: text, Title: MemberTitle}
		if m := re.FindStringSubmatch(text); m != nil {
			l.Name = strings.TrimSpace(m[1])
			l.Title = strings.TrimSpace(m[2])
		} else if i == 0 {
			l.Name = strings.TrimSpace(strings.TrimPrefix(text, "Members:"))
		}

		if links.Length() > linkIndex {
			l.Href = links.Eq(linkIndex).AttrOr("href", "")
		}
		if l.Href != "" {
			linked[l] = true
		}
		leaders = append(leaders, l)
	})
	return leaders, linked
}

func appendLeader(leaders []*heads.Leader, name, title string) []*heads.Leader {
	name = strings.TrimSpace(name)
	if name == "" {
		return leaders
	}
	return append(leaders, &heads.Leader{
		Name:  name,
		Title: strings.TrimSpace(title),
	})
}
