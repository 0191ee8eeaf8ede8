package service

import (
	"testing"

	"github.com/finchapm/finch/pkg/transaction/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTreeBuilderService_CorrelateProcesses(t *testing.T) {
	tbs := NewTreeBuilderService(zap.NewNop())

	t.Run("Produces one segment per fully matched triple", func(t *testing.T) {
		segments := tbs.CorrelateProcesses(
			[]model.SpawnEvent{
				{ContextID: "A", StartTime: 10, ParentContextID: "root"},
				{ContextID: "B", StartTime: 20, ParentContextID: "root"},
			},
			[]model.NameEvent{
				{ContextID: "A", Name: "worker-a"},
				{ContextID: "B", Name: "worker-b"},
			},
			[]model.ExitEvent{
				{ContextID: "A", EndTime: 50},
				{ContextID: "B", EndTime: 60},
			},
		)
		assert.Len(t, segments, 2)
		assert.Equal(t, model.ProcessSegment{
			ContextID:       "A",
			ParentContextID: "root",
			Name:            "worker-a",
			StartTime:       10,
			EndTime:         50,
		}, segments[0])
	})

	t.Run("Drops a spawn missing its name record", func(t *testing.T) {
		segments := tbs.CorrelateProcesses(
			[]model.SpawnEvent{{ContextID: "A", StartTime: 10, ParentContextID: "root"}},
			nil,
			[]model.ExitEvent{{ContextID: "A", EndTime: 50}},
		)
		assert.Empty(t, segments)
	})

	t.Run("Drops a spawn missing its exit record", func(t *testing.T) {
		segments := tbs.CorrelateProcesses(
			[]model.SpawnEvent{{ContextID: "A", StartTime: 10, ParentContextID: "root"}},
			[]model.NameEvent{{ContextID: "A", Name: "worker-a"}},
			nil,
		)
		assert.Empty(t, segments)
	})

	t.Run("Ignores names and exits without a spawn", func(t *testing.T) {
		segments := tbs.CorrelateProcesses(
			nil,
			[]model.NameEvent{{ContextID: "A", Name: "worker-a"}},
			[]model.ExitEvent{{ContextID: "A", EndTime: 50}},
		)
		assert.Empty(t, segments)
	})
}

func TestTreeBuilderService_BuildTrace(t *testing.T) {
	tbs := NewTreeBuilderService(zap.NewNop())

	t.Run("Single worker process becomes the root's only child", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{{ContextID: "A", StartTime: 0, ParentContextID: "root"}},
			ProcessNames:  []model.NameEvent{{ContextID: "A", Name: "worker"}},
			ProcessExits:  []model.ExitEvent{{ContextID: "A", EndTime: 50}},
		}
		root, processes := tbs.BuildTrace(tx, 0, "WebTransaction/Unknown", 100)

		assert.Equal(t, "root", root.ID)
		assert.Len(t, processes, 1)
		assert.Len(t, root.Children, 1)
		child := root.Children[0]
		assert.Equal(t, "worker", child.MethodName)
		assert.Equal(t, int64(0), child.RelativeStart)
		assert.Equal(t, int64(50), child.RelativeEnd)
	})

	t.Run("Root id always equals the supplied root context id", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "top-level",
		}
		root, _ := tbs.BuildTrace(tx, 0, "OtherTransaction/Job", 10)
		assert.Equal(t, "top-level", root.ID)
		assert.Empty(t, root.Children)
	})

	t.Run("Children are sorted by relative start time at every level", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{
				{ContextID: "B", StartTime: 1300, ParentContextID: "root"},
				{ContextID: "A", StartTime: 1100, ParentContextID: "root"},
				{ContextID: "B2", StartTime: 1400, ParentContextID: "B"},
				{ContextID: "B1", StartTime: 1350, ParentContextID: "B"},
			},
			ProcessNames: []model.NameEvent{
				{ContextID: "A", Name: "a"},
				{ContextID: "B", Name: "b"},
				{ContextID: "B1", Name: "b1"},
				{ContextID: "B2", Name: "b2"},
			},
			ProcessExits: []model.ExitEvent{
				{ContextID: "A", EndTime: 2000},
				{ContextID: "B", EndTime: 2000},
				{ContextID: "B1", EndTime: 1500},
				{ContextID: "B2", EndTime: 1600},
			},
		}
		root, _ := tbs.BuildTrace(tx, 1000, "WebTransaction/Unknown", 1000)

		assert.Len(t, root.Children, 2)
		assert.Equal(t, "a", root.Children[0].MethodName)
		assert.Equal(t, "b", root.Children[1].MethodName)

		b := root.Children[1]
		assert.Len(t, b.Children, 2)
		assert.Equal(t, "b1", b.Children[0].MethodName)
		assert.Equal(t, "b2", b.Children[1].MethodName)
		assert.LessOrEqual(t, b.Children[0].RelativeStart, b.Children[1].RelativeStart)
	})

	t.Run("Relative times are anchored to the trace start", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{{ContextID: "A", StartTime: 1500, ParentContextID: "root"}},
			ProcessNames:  []model.NameEvent{{ContextID: "A", Name: "worker"}},
			ProcessExits:  []model.ExitEvent{{ContextID: "A", EndTime: 1900}},
		}
		root, _ := tbs.BuildTrace(tx, 1000, "WebTransaction/Unknown", 1000)
		assert.Equal(t, int64(500), root.Children[0].RelativeStart)
		assert.Equal(t, int64(900), root.Children[0].RelativeEnd)
	})

	t.Run("Function segments form their own subtree under their process", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{{ContextID: "A", StartTime: 0, ParentContextID: "root"}},
			ProcessNames:  []model.NameEvent{{ContextID: "A", Name: "worker"}},
			ProcessExits:  []model.ExitEvent{{ContextID: "A", EndTime: 500}},
			FunctionSegments: []model.FunctionSegment{
				{
					ContextID: "A", ID: "f2", ParentID: "f1", StartTime: 100, EndTime: 200,
					Call: &model.FunctionCall{Module: "Repo", Function: "query", Arity: 2},
				},
				{
					ContextID: "A", ID: "f1", StartTime: 50, EndTime: 400,
					Call: &model.FunctionCall{Module: "Handler", Function: "handle", Arity: 1},
				},
			},
		}
		root, _ := tbs.BuildTrace(tx, 0, "WebTransaction/Unknown", 500)

		worker := root.Children[0]
		assert.Len(t, worker.Children, 1)
		f1 := worker.Children[0]
		assert.Equal(t, "Handler.handle/1", f1.MetricName)
		assert.Len(t, f1.Children, 1)
		assert.Equal(t, "Repo.query/2", f1.Children[0].MetricName)
	})

	t.Run("Root-owned function segments are appended after process children", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{{ContextID: "A", StartTime: 300, ParentContextID: "root"}},
			ProcessNames:  []model.NameEvent{{ContextID: "A", Name: "worker"}},
			ProcessExits:  []model.ExitEvent{{ContextID: "A", EndTime: 500}},
			FunctionSegments: []model.FunctionSegment{
				{
					ContextID: "root", ID: "f1", StartTime: 10, EndTime: 20,
					Named: &model.NamedSegment{Primary: "External", Secondary: "request"},
				},
			},
		}
		root, _ := tbs.BuildTrace(tx, 0, "WebTransaction/Unknown", 500)

		// process child first even though the function segment started
		// earlier; root-owned function segments are not sorted in
		assert.Len(t, root.Children, 2)
		assert.Equal(t, "worker", root.Children[0].MethodName)
		assert.Equal(t, "External/request", root.Children[1].MetricName)
	})

	t.Run("A cyclic parent link terminates and omits the second occurrence", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{
				{ContextID: "A", StartTime: 10, ParentContextID: "root"},
				{ContextID: "B", StartTime: 20, ParentContextID: "A"},
				{ContextID: "A", StartTime: 30, ParentContextID: "B"},
			},
			ProcessNames: []model.NameEvent{
				{ContextID: "A", Name: "a"},
				{ContextID: "B", Name: "b"},
			},
			ProcessExits: []model.ExitEvent{
				{ContextID: "A", EndTime: 100},
				{ContextID: "B", EndTime: 100},
			},
		}
		root, _ := tbs.BuildTrace(tx, 0, "WebTransaction/Unknown", 100)

		assert.Len(t, root.Children, 1)
		a := root.Children[0]
		assert.Equal(t, "a", a.MethodName)
		assert.Len(t, a.Children, 1)
		b := a.Children[0]
		assert.Equal(t, "b", b.MethodName)
		// the colliding id's children were already consumed by the first
		// occurrence, so the duplicate ends as a leaf
		assert.Len(t, b.Children, 1)
		assert.Empty(t, b.Children[0].Children)
	})

	t.Run("A mutual cycle unreachable from the root is dropped entirely", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{
				{ContextID: "A", StartTime: 10, ParentContextID: "B"},
				{ContextID: "B", StartTime: 20, ParentContextID: "A"},
			},
			ProcessNames: []model.NameEvent{
				{ContextID: "A", Name: "a"},
				{ContextID: "B", Name: "b"},
			},
			ProcessExits: []model.ExitEvent{
				{ContextID: "A", EndTime: 100},
				{ContextID: "B", EndTime: 100},
			},
		}
		root, _ := tbs.BuildTrace(tx, 0, "WebTransaction/Unknown", 100)
		assert.Empty(t, root.Children)
	})

	t.Run("A process with an unknown parent is omitted from the tree", func(t *testing.T) {
		tx := &model.Transaction{
			Attributes:    model.Attributes{},
			RootContextID: "root",
			ProcessSpawns: []model.SpawnEvent{{ContextID: "A", StartTime: 10, ParentContextID: "missing"}},
			ProcessNames:  []model.NameEvent{{ContextID: "A", Name: "a"}},
			ProcessExits:  []model.ExitEvent{{ContextID: "A", EndTime: 100}},
		}
		root, processes := tbs.BuildTrace(tx, 0, "WebTransaction/Unknown", 100)
		assert.Empty(t, root.Children)
		// still correlated, so span derivation sees it
		assert.Len(t, processes, 1)
	})
}
