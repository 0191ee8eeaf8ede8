package service

import (
	"sort"

	"github.com/finchapm/finch/pkg/transaction/model"
	"go.uber.org/zap"
)

// TreeBuilderService reconstructs the nested-concurrency shape of one
// transaction from the flat spawn/name/exit event lists and the flat
// function-segment list.
type TreeBuilderService struct {
	logger *zap.Logger
}

func NewTreeBuilderService(logger *zap.Logger) *TreeBuilderService {
	return &TreeBuilderService{logger: logger}
}

// CorrelateProcesses inner-joins the three event lists on context id. A
// context id missing a name or exit record never becomes a process segment;
// partial triples are dropped without reporting.
func (tbs *TreeBuilderService) CorrelateProcesses(
	spawns []model.SpawnEvent,
	names []model.NameEvent,
	exits []model.ExitEvent,
) []model.ProcessSegment {
	nameByContext := make(map[model.ContextID]string, len(names))
	for _, n := range names {
		nameByContext[n.ContextID] = n.Name
	}
	exitByContext := make(map[model.ContextID]int64, len(exits))
	for _, e := range exits {
		exitByContext[e.ContextID] = e.EndTime
	}

	var segments []model.ProcessSegment
	for _, spawn := range spawns {
		name, named := nameByContext[spawn.ContextID]
		endTime, exited := exitByContext[spawn.ContextID]
		if !named || !exited {
			continue
		}
		segments = append(segments, model.ProcessSegment{
			ContextID:       spawn.ContextID,
			ParentContextID: spawn.ParentContextID,
			Name:            name,
			StartTime:       spawn.StartTime,
			EndTime:         endTime,
		})
	}
	return segments
}

// BuildTrace assembles the single rooted trace tree for one transaction.
// traceStart is the transaction's monotonic start in µs; every segment's
// relative times are anchored to it. rootName is the finalized transaction
// metric name carried on the root node. The returned process segments are
// the fully correlated triples, reused by span derivation.
func (tbs *TreeBuilderService) BuildTrace(
	tx *model.Transaction,
	traceStart int64,
	rootName string,
	durationUs int64,
) (*model.TraceSegment, []model.ProcessSegment) {
	processes := tbs.CorrelateProcesses(tx.ProcessSpawns, tx.ProcessNames, tx.ProcessExits)
	segmentsByContext := groupSegmentsByContext(tx.FunctionSegments)

	childrenByParent := make(map[string][]*model.TraceSegment)
	for _, ps := range processes {
		node := ps.ToTraceSegment(traceStart)
		node.Children = buildFunctionSubtree(segmentsByContext[ps.ContextID], traceStart)
		delete(segmentsByContext, ps.ContextID)
		childrenByParent[node.ParentID] = append(childrenByParent[node.ParentID], node)
	}

	root := &model.TraceSegment{
		ID:            string(tx.RootContextID),
		RelativeStart: 0,
		RelativeEnd:   durationUs,
		ClassName:     "Transaction",
		MethodName:    rootName,
		MetricName:    rootName,
	}
	growTree(root, childrenByParent)

	// function segments owned by the root context go after the process
	// children, preserving their own subtree structure
	root.Children = append(root.Children, buildFunctionSubtree(segmentsByContext[tx.RootContextID], traceStart)...)

	if leftover := len(childrenByParent); leftover > 0 {
		tbs.logger.Debug("process segments with unknown parents omitted from trace",
			zap.Int("parent_ids", leftover))
	}
	return root, processes
}

func groupSegmentsByContext(segments []model.FunctionSegment) map[model.ContextID][]model.FunctionSegment {
	grouped := make(map[model.ContextID][]model.FunctionSegment)
	for _, seg := range segments {
		grouped[seg.ContextID] = append(grouped[seg.ContextID], seg)
	}
	return grouped
}

// buildFunctionSubtree builds the per-context subtree of function segments.
// Segment parent links are by segment identity; segments without a parent
// hang off a synthetic root whose children are returned.
func buildFunctionSubtree(segments []model.FunctionSegment, traceStart int64) []*model.TraceSegment {
	if len(segments) == 0 {
		return nil
	}
	childrenByParent := make(map[string][]*model.TraceSegment)
	for _, seg := range segments {
		node := seg.ToTraceSegment(traceStart)
		childrenByParent[node.ParentID] = append(childrenByParent[node.ParentID], node)
	}
	synthetic := &model.TraceSegment{ID: ""}
	growTree(synthetic, childrenByParent)
	return synthetic.Children
}

// growTree attaches every segment under its parent, depth first. The child
// mapping is strictly consumed: a node's children are removed when placed,
// so growth terminates even when the raw parent links contain a cycle (the
// second occurrence is simply omitted). New children are appended after any
// the node already has.
func growTree(node *model.TraceSegment, childrenByParent map[string][]*model.TraceSegment) {
	children, ok := childrenByParent[node.ID]
	if !ok {
		return
	}
	delete(childrenByParent, node.ID)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].RelativeStart < children[j].RelativeStart
	})
	for _, child := range children {
		growTree(child, childrenByParent)
		node.Children = append(node.Children, child)
	}
}
