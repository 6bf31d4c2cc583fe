package session

import (
	"strings"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// sortingCollector: the judge files every sample under a free-text group.
// The group list starts with three groups and is judge-extensible; advancing
// requires every sample to be assigned.
type sortingCollector struct{}

func (sortingCollector) init(s *Session) {
	s.groups = []string{"Group 1", "Group 2", "Group 3"}
}

func (sortingCollector) canAdvance(s *Session) bool {
	for _, sm := range s.order {
		if _, ok := s.draft.groups[sm.Code]; !ok {
			return false
		}
	}
	return true
}

func (sortingCollector) finalize(s *Session, r *models.Result) {
	if len(s.draft.groups) == 0 {
		return
	}
	groups := make(map[string]string, len(s.draft.groups))
	for code, g := range s.draft.groups {
		groups[code] = g
	}
	r.Groups = groups
}

// Groups returns the judge-managed group list.
func (s *Session) Groups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.groups...)
}

func (s *Session) hasGroup(name string) bool {
	for _, g := range s.groups {
		if g == name {
			return true
		}
	}
	return false
}

// AddGroup appends a new group label.
func (s *Session) AddGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodSorting {
		return ErrWrongMethod
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyDescription
	}
	if !s.hasGroup(name) {
		s.groups = append(s.groups, name)
	}
	return nil
}

// RemoveGroup drops a group and unassigns any sample filed under it. The
// destructive-action confirmation happens at the UI boundary.
func (s *Session) RemoveGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodSorting {
		return ErrWrongMethod
	}
	for i, g := range s.groups {
		if g == name {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			break
		}
	}
	for code, g := range s.draft.groups {
		if g == name {
			delete(s.draft.groups, code)
		}
	}
	return nil
}

// AssignGroup files a sample under an existing group.
func (s *Session) AssignGroup(code, group string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodSorting {
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	if !s.hasGroup(group) {
		return ErrUnknownGroup
	}
	s.draft.groups[code] = group
	return nil
}
