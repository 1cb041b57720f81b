package state

import (
	"slices"
	"sync"

	"github.com/gosimple/slug"

	"github.com/taskforge/taskforge/cli/api"
)

// -----------------------------------------------------------------------------
// Board
// -----------------------------------------------------------------------------

type BoardStore struct {
	mu    sync.RWMutex
	board *api.Board
	tasks map[string][]api.BoardTask
}

func (s *BoardStore) Set(board *api.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = board
	s.tasks = nil
}

// Board returns the held board, or nil.
func (s *BoardStore) Board() *api.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// SetTasks stores the board's tasks keyed by column id.
func (s *BoardStore) SetTasks(tasks map[string][]api.BoardTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
}

// ColumnTasks returns the tasks of one column in board order.
func (s *BoardStore) ColumnTasks(columnID string) []api.BoardTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := slices.Clone(s.tasks[columnID])
	if tasks == nil {
		return []api.BoardTask{}
	}
	slices.SortStableFunc(tasks, func(a, b api.BoardTask) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
	return tasks
}

func (s *BoardStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = nil
	s.tasks = nil
}

// -----------------------------------------------------------------------------
// Organizations
// -----------------------------------------------------------------------------

type OrganizationStore struct {
	mu            sync.RWMutex
	organizations []api.Organization
	total         int
	active        *api.Organization
	members       []api.Member
}

func (s *OrganizationStore) SetOrganizations(orgs []api.Organization, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations = orgs
	s.total = total
}

func (s *OrganizationStore) Organizations() ([]api.Organization, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.organizations == nil {
		return []api.Organization{}, s.total
	}
	return s.organizations, s.total
}

func (s *OrganizationStore) SetActive(org *api.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = org
}

// Active returns the selected organization. Without an explicit selection it
// falls back to the organization the backend marks active.
func (s *OrganizationStore) Active() *api.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active != nil {
		return s.active
	}
	for i := range s.organizations {
		if s.organizations[i].IsActive {
			org := s.organizations[i]
			return &org
		}
	}
	return nil
}

// Find looks an organization up by id, slug or display name.
func (s *OrganizationStore) Find(ref string) (*api.Organization, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.organizations {
		if s.organizations[i].ID == ref || s.organizations[i].Slug == ref {
			org := s.organizations[i]
			return &org, true
		}
	}
	// a display name such as "Acme Corp" matches the slug "acme-corp"
	normalized := slug.Make(ref)
	if normalized == "" {
		return nil, false
	}
	for i := range s.organizations {
		if s.organizations[i].Slug == normalized {
			org := s.organizations[i]
			return &org, true
		}
	}
	return nil, false
}

func (s *OrganizationStore) SetMembers(members []api.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = members
}

func (s *OrganizationStore) Members() []api.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.members == nil {
		return []api.Member{}
	}
	return s.members
}

// -----------------------------------------------------------------------------
// User
// -----------------------------------------------------------------------------

type UserStore struct {
	mu   sync.RWMutex
	user *api.User
}

func (s *UserStore) Set(user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *UserStore) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *UserStore) Clear() {
	s.Set(nil)
}

// -----------------------------------------------------------------------------
// Sidebar
// -----------------------------------------------------------------------------

// SidebarStore tracks whether the project navigation is collapsed.
type SidebarStore struct {
	mu     sync.RWMutex
	hidden bool
}

func (s *SidebarStore) Hidden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hidden
}

func (s *SidebarStore) SetHidden(hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = hidden
}

// Toggle flips the flag and returns the new value.
func (s *SidebarStore) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = !s.hidden
	return s.hidden
}
