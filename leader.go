package heads

import "sort"

// Role identifies the logical column a table cell was assigned to.
type Role string

// Roles of the three logical columns, plus the merged head-of-state and
// head-of-government role signalled by a column span.
const (
	RoleState                    Role = "state"
	RoleHeadOfState              Role = "headOfState"
	RoleHeadOfGovernment         Role = "headOfGovernment"
	RoleHeadOfStateAndGovernment Role = "headOfStateAndGovernment"
)

// State identifies one row group of the table.
type State struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// Leader is one officeholder extracted from a table cell.
type Leader struct {
	Name                   string `json:"name"`
	Title                  string `json:"title"`
	Href                   string `json:"href"`
	ExecutiveAdministrator bool   `json:"executiveAdministrator"`
	Ceremonial             bool   `json:"ceremonial"`
}

// Record accumulates the leaders found for one state while its rows are
// walked.
type Record struct {
	State                    State
	HeadOfState              []*Leader
	HeadOfGovernment         []*Leader
	HeadOfStateAndGovernment []*Leader
}

// Validate returns an error if the record cannot be stored.
func (r *Record) Validate() error {
	if r.State.Name == "" {
		return Errorf(EINVALID, "record state name required")
	}
	return nil
}

// Len returns the number of leaders in the record across all roles.
func (r *Record) Len() int {
	return len(r.HeadOfState) + len(r.HeadOfGovernment) + len(r.HeadOfStateAndGovernment)
}

// Recorder receives committed records.
type Recorder interface {
	Insert(rec *Record) error
}

// StateLeaders holds the leaders of one state keyed by leader name.
type StateLeaders struct {
	Href                     string             `json:"href"`
	HeadOfState              map[string]*Leader `json:"headOfState"`
	HeadOfGovernment         map[string]*Leader `json:"headOfGovernment"`
	HeadOfStateAndGovernment map[string]*Leader `json:"headOfStateAndGovernment"`
}

// Leaders returns the leaders stored for a role.
func (s *StateLeaders) Leaders(role Role) map[string]*Leader {
	switch role {
	case RoleHeadOfState:
		return s.HeadOfState
	case RoleHeadOfGovernment:
		return s.HeadOfGovernment
	case RoleHeadOfStateAndGovernment:
		return s.HeadOfStateAndGovernment
	}
	return nil
}

// Store maps state names to their leaders.
type Store struct {
	States map[string]*StateLeaders `json:"countries"`

	order []string
}

var _ Recorder = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{States: make(map[string]*StateLeaders)}
}

// Insert replaces the entry for the record's state. Leaders with the same
// name in the same role overwrite each other, last one wins.
func (s *Store) Insert(rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if s.States == nil {
		s.States = make(map[string]*StateLeaders)
	}
	if _, ok := s.States[rec.State.Name]; !ok {
		s.order = append(s.order, rec.State.Name)
	}

	s.States[rec.State.Name] = &StateLeaders{
		Href:                     rec.State.Href,
		HeadOfState:              keyByName(rec.HeadOfState),
		HeadOfGovernment:         keyByName(rec.HeadOfGovernment),
		HeadOfStateAndGovernment: keyByName(rec.HeadOfStateAndGovernment),
	}
	return nil
}

// Names returns state names in the order they were first inserted.
// Stores decoded from JSON or loaded from a snapshot have no insertion
// order; their names are returned sorted.
func (s *Store) Names() []string {
	if len(s.order) == len(s.States) {
		return append([]string(nil), s.order...)
	}
	names := make([]string, 0, len(s.States))
	for name := range s.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reorder sets the order Names reports, for stores rebuilt from storage.
// Names not in the store are dropped and states missing from names follow
// in sorted order.
func (s *Store) Reorder(names []string) {
	seen := make(map[string]bool, len(s.States))
	order := make([]string, 0, len(s.States))
	for _, name := range names {
		if _, ok := s.States[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	var rest []string
	for name := range s.States {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	s.order = append(order, rest...)
}

// Len returns the number of states in the store.
func (s *Store) Len() int {
	return len(s.States)
}

func keyByName(leaders []*Leader) map[string]*Leader {
	m := make(map[string]*Leader, len(leaders))
	for _, l := range leaders {
		copied := *l
		m[l.Name] = &copied
	}
	return m
}
