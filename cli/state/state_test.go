package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/engine/workflow"
)

func sampleWorkflow() *workflow.Workflow {
	return &workflow.Workflow{
		ID: "w1",
		Tasks: []workflow.Task{
			{ID: "a", Status: workflow.StatusTodo, Children: []workflow.Task{{ID: "a1", Status: workflow.StatusTodo}}},
			{ID: "b", Status: workflow.StatusDone},
		},
	}
}

func TestWorkflowStore(t *testing.T) {
	t.Run("Should start empty", func(t *testing.T) {
		store := NewApp(0).Workflow
		assert.Nil(t, store.Current())
		assert.Empty(t, store.Tasks())
		assert.Empty(t, store.Flatten())
		assert.False(t, store.UpdateStatus("a", workflow.StatusDone))
	})

	t.Run("Should update nested statuses without touching the previous value", func(t *testing.T) {
		store := NewApp(0).Workflow
		original := sampleWorkflow()
		store.Set(original)
		require.True(t, store.UpdateStatus("a1", workflow.StatusInProgress))
		found, ok := workflow.Find(store.Tasks(), "a1")
		require.True(t, ok)
		assert.Equal(t, workflow.StatusInProgress, found.Status)
		assert.Equal(t, workflow.StatusTodo, original.Tasks[0].Children[0].Status)
		assert.Equal(t, uint64(2), store.Revision())
	})

	t.Run("Should report unknown tasks", func(t *testing.T) {
		store := NewApp(0).Workflow
		store.Set(sampleWorkflow())
		assert.False(t, store.UpdateStatus("ghost", workflow.StatusDone))
		assert.Equal(t, uint64(1), store.Revision())
	})

	t.Run("Should update top-level statuses only through the parent path", func(t *testing.T) {
		store := NewApp(0).Workflow
		store.Set(sampleWorkflow())
		assert.False(t, store.UpdateParentStatus("a1", workflow.StatusDone))
		assert.Equal(t, uint64(1), store.Revision())
		require.True(t, store.UpdateParentStatus("a", workflow.StatusDone))
		assert.Equal(t, workflow.StatusDone, store.Tasks()[0].Status)
		assert.Equal(t, workflow.StatusTodo, store.Tasks()[0].Children[0].Status)
	})

	t.Run("Should flatten in render order", func(t *testing.T) {
		store := NewApp(0).Workflow
		store.Set(sampleWorkflow())
		flat := store.Flatten()
		require.Len(t, flat, 3)
		assert.Equal(t, "a1", flat[1].ID)
		assert.Equal(t, 1, flat[1].Level)
	})
}

func TestTaskStore(t *testing.T) {
	t.Run("Should patch tasks in the tree", func(t *testing.T) {
		store := NewApp(0).Tasks
		store.SetTree(sampleWorkflow().Tasks)
		title := "Renamed"
		store.UpdateTask("a1", workflow.TaskPatch{Title: &title})
		found, ok := workflow.Find(store.Tree(), "a1")
		require.True(t, ok)
		assert.Equal(t, "Renamed", found.Title)
	})

	t.Run("Should keep an empty tree non-nil", func(t *testing.T) {
		store := NewApp(0).Tasks
		store.SetTree(nil)
		assert.NotNil(t, store.Tree())
	})
}

type fetcherFunc func(ctx context.Context, id string) (*workflow.Workflow, error)

func (f fetcherFunc) Get(ctx context.Context, id string) (*workflow.Workflow, error) {
	return f(ctx, id)
}

func TestLoader(t *testing.T) {
	t.Run("Should store the fetched workflow and clear loading", func(t *testing.T) {
		store := NewApp(0).Workflow
		var sawLoading bool
		loader := NewLoader(fetcherFunc(func(_ context.Context, _ string) (*workflow.Workflow, error) {
			sawLoading = store.Loading()
			return sampleWorkflow(), nil
		}), store)
		wf, err := loader.Load(t.Context(), "w1")
		require.NoError(t, err)
		assert.Equal(t, "w1", wf.ID)
		assert.True(t, sawLoading)
		assert.False(t, store.Loading())
		assert.Same(t, wf, store.Current())
	})

	t.Run("Should record fetch errors", func(t *testing.T) {
		store := NewApp(0).Workflow
		boom := errors.New("boom")
		loader := NewLoader(fetcherFunc(func(_ context.Context, _ string) (*workflow.Workflow, error) {
			return nil, boom
		}), store)
		_, err := loader.Load(t.Context(), "w1")
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, store.Err(), boom)
		assert.False(t, store.Loading())
	})

	t.Run("Should discard results that arrive after cancellation", func(t *testing.T) {
		store := NewApp(0).Workflow
		previous := &workflow.Workflow{ID: "old", Tasks: []workflow.Task{}}
		store.Set(previous)
		ctx, cancel := context.WithCancel(t.Context())
		loader := NewLoader(fetcherFunc(func(_ context.Context, _ string) (*workflow.Workflow, error) {
			cancel()
			return sampleWorkflow(), nil
		}), store)
		_, err := loader.Load(ctx, "w1")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Same(t, previous, store.Current())
		assert.NoError(t, store.Err())
		assert.False(t, store.Loading())
	})
}

func TestProjectStore(t *testing.T) {
	t.Run("Should find projects and track recent ones", func(t *testing.T) {
		store := NewProjectStore(2)
		store.SetProjects([]api.SidebarProject{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}})
		_, ok := store.ProjectByID("p1")
		require.True(t, ok)
		store.Touch("p2")
		store.Touch("p3")
		assert.Equal(t, []string{"p3", "p2"}, store.Recent())
		store.Touch("p2")
		assert.Equal(t, []string{"p2", "p3"}, store.Recent())
	})

	t.Run("Should not record unknown projects", func(t *testing.T) {
		store := NewProjectStore(0)
		_, ok := store.ProjectByID("ghost")
		assert.False(t, ok)
		assert.Empty(t, store.Recent())
	})
}

func TestDashboardStore(t *testing.T) {
	t.Run("Should ignore section updates before a summary exists", func(t *testing.T) {
		store := NewDashboardStore()
		assert.False(t, store.SetStats(api.DashboardStats{TotalTasks: 3}))
		assert.Nil(t, store.Stats())
		assert.NotNil(t, store.RecentTasks())
		assert.Empty(t, store.RecentActivity())
		assert.True(t, store.LastUpdated().IsZero())
	})

	t.Run("Should update a section and bump the timestamp", func(t *testing.T) {
		store := NewDashboardStore()
		tick := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return tick }
		store.SetSummary(&api.DashboardSummary{})
		tick = tick.Add(time.Minute)
		require.True(t, store.SetRecentTasks([]api.RecentTask{{ID: "k1"}}))
		assert.Len(t, store.RecentTasks(), 1)
		assert.Equal(t, tick, store.LastUpdated())
		store.Clear()
		assert.Nil(t, store.Summary())
		assert.True(t, store.LastUpdated().IsZero())
	})
}

func TestOrganizationStore(t *testing.T) {
	t.Run("Should fall back to the backend active organization", func(t *testing.T) {
		store := &OrganizationStore{}
		assert.Nil(t, store.Active())
		store.SetOrganizations([]api.Organization{{ID: "o1", Slug: "one"}, {ID: "o2", Slug: "two", IsActive: true}}, 2)
		require.NotNil(t, store.Active())
		assert.Equal(t, "o2", store.Active().ID)
		org, ok := store.Find("one")
		require.True(t, ok)
		store.SetActive(org)
		assert.Equal(t, "o1", store.Active().ID)
	})

	t.Run("Should match a display name against the slug", func(t *testing.T) {
		store := &OrganizationStore{}
		store.SetOrganizations([]api.Organization{{ID: "o1", Slug: "acme-corp", Name: "Acme Corp"}}, 1)
		org, ok := store.Find("Acme Corp")
		require.True(t, ok)
		assert.Equal(t, "o1", org.ID)
		_, ok = store.Find("Globex")
		assert.False(t, ok)
		_, ok = store.Find("  ")
		assert.False(t, ok)
	})
}

func TestSidebarAndUserStores(t *testing.T) {
	t.Run("Should toggle the sidebar", func(t *testing.T) {
		store := &SidebarStore{}
		assert.True(t, store.Toggle())
		assert.False(t, store.Toggle())
		store.SetHidden(true)
		assert.True(t, store.Hidden())
	})

	t.Run("Should clear the user", func(t *testing.T) {
		store := &UserStore{}
		store.Set(&api.User{ID: "u1"})
		store.Clear()
		assert.Nil(t, store.User())
	})
}

func TestBoardStore(t *testing.T) {
	t.Run("Should order column tasks by position", func(t *testing.T) {
		store := &BoardStore{}
		store.Set(&api.Board{ID: "b1"})
		store.SetTasks(map[string][]api.BoardTask{"c1": {{ID: "k2", Position: 2}, {ID: "k1", Position: 1}}})
		tasks := store.ColumnTasks("c1")
		assert.Equal(t, "k1", tasks[0].ID)
		assert.Empty(t, store.ColumnTasks("missing"))
		store.Clear()
		assert.Nil(t, store.Board())
	})
}
