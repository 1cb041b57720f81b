// Package state holds the client-side application state of a CLI session.
// Every store is owned by an App value and guarded by its own lock; writers
// replace whole values, so the last writer wins.
package state

import "github.com/taskforge/taskforge/engine/workflow"

const DefaultRecentProjects = 8

// App aggregates one store per concern.
type App struct {
	Workflow      *WorkflowStore
	Tasks         *TaskStore
	Board         *BoardStore
	Organizations *OrganizationStore
	Projects      *ProjectStore
	Dashboard     *DashboardStore
	User          *UserStore
	Sidebar       *SidebarStore
}

// NewApp creates empty stores. recentProjects bounds the recently used
// projects list; values below one fall back to DefaultRecentProjects.
func NewApp(recentProjects int) *App {
	return &App{
		Workflow:      &WorkflowStore{},
		Tasks:         &TaskStore{tree: []workflow.Task{}},
		Board:         &BoardStore{},
		Organizations: &OrganizationStore{},
		Projects:      NewProjectStore(recentProjects),
		Dashboard:     NewDashboardStore(),
		User:          &UserStore{},
		Sidebar:       &SidebarStore{},
	}
}
