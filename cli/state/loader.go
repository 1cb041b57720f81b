package state

import (
	"context"
	"fmt"

	"github.com/taskforge/taskforge/engine/workflow"
	"github.com/taskforge/taskforge/pkg/logger"
)

// WorkflowFetcher fetches and normalizes one workflow.
type WorkflowFetcher interface {
	Get(ctx context.Context, workflowID string) (*workflow.Workflow, error)
}

// Loader fills a WorkflowStore from the backend.
type Loader struct {
	fetcher WorkflowFetcher
	store   *WorkflowStore
}

func NewLoader(fetcher WorkflowFetcher, store *WorkflowStore) *Loader {
	return &Loader{fetcher: fetcher, store: store}
}

// Load fetches the workflow and writes it to the store. When ctx is done by
// the time the response arrives, the result is discarded and the store keeps
// its previous value. Loading is cleared in every case.
func (l *Loader) Load(ctx context.Context, workflowID string) (*workflow.Workflow, error) {
	log := logger.FromContext(ctx)
	l.store.SetLoading(true)
	defer l.store.SetLoading(false)
	wf, err := l.fetcher.Get(ctx, workflowID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Debug("discarding workflow result after cancellation", "workflow_id", workflowID)
		return nil, fmt.Errorf("workflow %s load abandoned: %w", workflowID, ctxErr)
	}
	if err != nil {
		l.store.SetError(err)
		return nil, err
	}
	l.store.Set(wf)
	return wf, nil
}
