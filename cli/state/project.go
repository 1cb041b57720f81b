package state

import (
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/taskforge/taskforge/cli/api"
)

// ProjectStore holds the sidebar projects of the active organization and a
// bounded list of recently opened project ids.
type ProjectStore struct {
	mu       sync.RWMutex
	projects []api.SidebarProject
	recent   *lru.Cache[string, struct{}]
}

func NewProjectStore(size int) *ProjectStore {
	if size < 1 {
		size = DefaultRecentProjects
	}
	// lru.New only fails on a non-positive size.
	recent, err := lru.New[string, struct{}](size)
	if err != nil {
		panic(err)
	}
	return &ProjectStore{projects: []api.SidebarProject{}, recent: recent}
}

func (s *ProjectStore) SetProjects(projects []api.SidebarProject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if projects == nil {
		projects = []api.SidebarProject{}
	}
	s.projects = projects
}

func (s *ProjectStore) Projects() []api.SidebarProject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// ProjectByID returns the project with the given id and marks it as recently
// used.
func (s *ProjectStore) ProjectByID(projectID string) (*api.SidebarProject, bool) {
	s.mu.RLock()
	idx := slices.IndexFunc(s.projects, func(p api.SidebarProject) bool { return p.ID == projectID })
	var project api.SidebarProject
	if idx >= 0 {
		project = s.projects[idx]
	}
	s.mu.RUnlock()
	if idx < 0 {
		return nil, false
	}
	s.Touch(projectID)
	return &project, true
}

// Touch records a project as recently used.
func (s *ProjectStore) Touch(projectID string) {
	if projectID == "" {
		return
	}
	s.recent.Add(projectID, struct{}{})
}

// Recent returns recently used project ids, most recent first.
func (s *ProjectStore) Recent() []string {
	keys := s.recent.Keys()
	slices.Reverse(keys)
	return keys
}
