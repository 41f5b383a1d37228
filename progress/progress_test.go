package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Update(t *testing.T) {
	var snapshots []Snapshot
	ctx, tracker := WithNewTracker(context.Background(), "Report - 1", func(p Snapshot) {
		snapshots = append(snapshots, p)
	})
	UpdateCtx(ctx, Delta{Total: 2, Pending: 2})
	UpdateCtx(ctx, Delta{Running: 1, Pending: -1})
	UpdateCtx(ctx, Delta{Running: -1, Completed: 1})
	UpdateCtx(ctx, Delta{Pending: -1, Failed: 1})

	require.Len(t, snapshots, 4)
	assert.False(t, snapshots[2].Done())
	final := tracker.Snapshot()
	assert.True(t, final.Done())
	assert.True(t, tracker.Done())
	assert.Equal(t, "Report - 1", final.Title)
	assert.Equal(t, 1, final.CompletedCommands)
	assert.Equal(t, 1, final.FailedCommands)
	assert.Equal(t, 0, final.PendingCommands)
}

func TestProgress_Concurrent(t *testing.T) {
	tracker := &Progress{}
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Total: 1, Completed: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, tracker.Snapshot().CompletedCommands)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	UpdateCtx(context.Background(), Delta{Total: 1})
	var tracker *Progress
	tracker.Update(Delta{Total: 1})
	assert.Equal(t, Snapshot{}, tracker.Snapshot())
	assert.False(t, tracker.Done())
}

func TestProgress_DoneWhileUpdating(t *testing.T) {
	tracker := New("Report - 2", nil)
	tracker.OnChange(func(s Snapshot) {
		assert.Equal(t, "Report - 2", s.Title)
	})
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Total: 1, Completed: 1})
		}()
		go func() {
			defer wg.Done()
			_ = tracker.Done()
		}()
	}
	wg.Wait()
	assert.True(t, tracker.Done())
	assert.Equal(t, 20, tracker.Snapshot().TotalCommands)
}
