package state

import (
	"sync"
	"time"

	"github.com/taskforge/taskforge/cli/api"
)

// DashboardStore holds the last dashboard summary. Section setters only apply
// once a summary is present.
type DashboardStore struct {
	mu          sync.RWMutex
	summary     *api.DashboardSummary
	lastUpdated time.Time
	now         func() time.Time
}

func NewDashboardStore() *DashboardStore {
	return &DashboardStore{now: time.Now}
}

func (s *DashboardStore) SetSummary(summary *api.DashboardSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
	s.lastUpdated = s.now()
}

// Summary returns the held summary, or nil.
func (s *DashboardStore) Summary() *api.DashboardSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// LastUpdated is zero until a summary has been stored.
func (s *DashboardStore) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

func (s *DashboardStore) updateSection(fn func(*api.DashboardSummary)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return false
	}
	next := *s.summary
	fn(&next)
	s.summary = &next
	s.lastUpdated = s.now()
	return true
}

func (s *DashboardStore) SetStats(stats api.DashboardStats) bool {
	return s.updateSection(func(d *api.DashboardSummary) { d.Stats = stats })
}

func (s *DashboardStore) SetRecentTasks(tasks []api.RecentTask) bool {
	return s.updateSection(func(d *api.DashboardSummary) { d.RecentTasks = tasks })
}

func (s *DashboardStore) SetActiveProjects(projects []api.ActiveProject) bool {
	return s.updateSection(func(d *api.DashboardSummary) { d.ActiveProjects = projects })
}

func (s *DashboardStore) SetUpcomingDeadlines(deadlines []api.UpcomingDeadline) bool {
	return s.updateSection(func(d *api.DashboardSummary) { d.UpcomingDeadlines = deadlines })
}

func (s *DashboardStore) SetRecentActivity(activity []api.RecentActivity) bool {
	return s.updateSection(func(d *api.DashboardSummary) { d.RecentActivity = activity })
}

// Stats returns nil when no summary is held.
func (s *DashboardStore) Stats() *api.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return nil
	}
	stats := s.summary.Stats
	return &stats
}

func (s *DashboardStore) RecentTasks() []api.RecentTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil || s.summary.RecentTasks == nil {
		return []api.RecentTask{}
	}
	return s.summary.RecentTasks
}

func (s *DashboardStore) ActiveProjects() []api.ActiveProject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil || s.summary.ActiveProjects == nil {
		return []api.ActiveProject{}
	}
	return s.summary.ActiveProjects
}

func (s *DashboardStore) UpcomingDeadlines() []api.UpcomingDeadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil || s.summary.UpcomingDeadlines == nil {
		return []api.UpcomingDeadline{}
	}
	return s.summary.UpcomingDeadlines
}

func (s *DashboardStore) RecentActivity() []api.RecentActivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil || s.summary.RecentActivity == nil {
		return []api.RecentActivity{}
	}
	return s.summary.RecentActivity
}

// Clear drops the summary and its timestamp.
func (s *DashboardStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = nil
	s.lastUpdated = time.Time{}
}
