package bvh

import (
	"math"
	"time"

	"github.com/MillerLab-UCDavis/ARTRS/log"
	"github.com/MillerLab-UCDavis/ARTRS/types"
)

type Axis int

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The builder will not attempt to calculate split candidates if the
	// node bbox along an axis is less than this threshold.
	minSideLength = 1e-6

	// If the split step (calculated as side length / (1024 / depth+1))
	// is less than this threshold the builder will not evaluate split
	// candidates.
	minSplitStep = 1e-8

	// DefaultMinLeafItems is the leaf size used by scene builds.
	DefaultMinLeafItems = 2
)

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic ScoreStrategy = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all primitives that can be
// partitioned by the builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
}

// A split scoring strategy.
type ScoreStrategy interface {
	// Calculate a score for splitting workList at splitPoint along a particular Axis.
	ScoreSplit(workList []BoundedVolume, splitAxis Axis, splitPoint float64) (leftCount, rightCount int, score float64)

	// Calculate a score for all items in workList.
	ScorePartition(workList []BoundedVolume) (score float64)
}

type splitScore struct {
	axis       Axis
	splitPoint float64

	leftCount, rightCount int
	score                 float64
}

type builderStats struct {
	partitionedItems int
	totalItems       int
	nodes            int
	leafs            int
	maxDepth         int
}

// indexedVolume caches the bbox and centroid of an input volume together
// with its position in the original work list so leaves can record item
// indices instead of interface values.
type indexedVolume struct {
	bbox   [2]types.Vec3
	center types.Vec3
	index  int32
}

func (iv indexedVolume) BBox() [2]types.Vec3 { return iv.bbox }
func (iv indexedVolume) Center() types.Vec3  { return iv.center }

type builder struct {
	logger log.Logger

	// Tree nodes stored as a contiguous list.
	nodes []Node

	// Leaf item indices grouped per leaf.
	items []int32

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	// A channel for receiving score results.
	scoreChan chan splitScore

	// The split scoring strategy to use.
	scoreStrategy ScoreStrategy

	stats builderStats
}

// Build constructs a BVH over a set of bounded volumes and returns the
// queryable tree. Leaves keep indices into the input work list.
//
// The minLeafItems param specifies the minimum number of items that can form
// a leaf; the builder automatically generates leafs when the incoming work
// length is <= minLeafItems.
func Build(workList []BoundedVolume, minLeafItems int, scoreStrategy ScoreStrategy) (*Tree, error) {
	if len(workList) == 0 {
		return nil, ErrEmptyScene
	}
	if minLeafItems < 1 {
		minLeafItems = 1
	}

	b := &builder{
		logger:        log.New("bvh"),
		nodes:         make([]Node, 0, 2*len(workList)),
		items:         make([]int32, 0, len(workList)),
		minLeafItems:  minLeafItems,
		scoreChan:     make(chan splitScore),
		scoreStrategy: scoreStrategy,
		stats: builderStats{
			totalItems: len(workList),
		},
	}

	indexed := make([]BoundedVolume, len(workList))
	for idx, item := range workList {
		indexed[idx] = indexedVolume{
			bbox:   item.BBox(),
			center: item.Center(),
			index:  int32(idx),
		}
	}

	start := time.Now()
	b.partition(indexed, 0)
	b.logger.Debugf(
		"tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes+b.stats.leafs, b.stats.leafs,
	)

	return &Tree{nodes: b.nodes, items: b.items}, nil
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	node := Node{
		Min: types.Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: types.Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}

	// Calculate bounding box for node.
	for _, item := range workList {
		itemBBox := item.BBox()
		node.Min = types.MinVec3(node.Min, itemBBox[0])
		node.Max = types.MaxVec3(node.Max, itemBBox[1])
	}

	// Do we have enough items for partitioning? If not create a leaf.
	if len(workList) <= b.minLeafItems {
		return b.createLeaf(&node, workList)
	}

	// Calc current node score.
	bestScore := b.scoreStrategy.ScorePartition(workList)
	var bestSplit *splitScore

	// Try partitioning along each axis and select the split with best
	// score. Split candidates are scored in parallel.
	pendingScores := 0
	side := node.Max.Sub(node.Min)
	for axis := XAxis; axis <= ZAxis; axis++ {
		if side.Axis(int(axis)) < minSideLength {
			continue
		}

		// Split steps become more granular the deeper we go.
		splitStep := side.Axis(int(axis)) / (1024.0 / float64(depth+1))
		if splitStep < minSplitStep {
			continue
		}

		for splitPoint := node.Min.Axis(int(axis)); splitPoint < node.Max.Axis(int(axis)); splitPoint += splitStep {
			pendingScores++
			go func(axis Axis, splitPoint float64) {
				lCount, rCount, score := b.scoreStrategy.ScoreSplit(workList, axis, splitPoint)
				b.scoreChan <- splitScore{
					axis:       axis,
					splitPoint: splitPoint,

					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}(axis, splitPoint)
		}
	}

	// Process all scores and pick the best split.
	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score < bestScore {
			bestScore = candidate.score
			bestSplit = &candidate
		}
	}

	// If no split improves on the unsplit node score create a leaf.
	if bestSplit == nil {
		return b.createLeaf(&node, workList)
	}

	// Split work list into two sets.
	leftWorkList := make([]BoundedVolume, 0, bestSplit.leftCount)
	rightWorkList := make([]BoundedVolume, 0, bestSplit.rightCount)
	for _, item := range workList {
		if item.Center().Axis(int(bestSplit.axis)) < bestSplit.splitPoint {
			leftWorkList = append(leftWorkList, item)
		} else {
			rightWorkList = append(rightWorkList, item)
		}
	}

	// Add node to list.
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	// Partition children and update node indices.
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Setup the given node as a leaf containing all items in the work list and
// return its index in the node array.
func (b *builder) createLeaf(node *Node, workList []BoundedVolume) uint32 {
	first := len(b.items)
	for _, item := range workList {
		b.items = append(b.items, item.(indexedVolume).index)
	}
	node.SetItems(uint32(first), uint32(len(workList)))

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	b.stats.leafs++
	b.stats.partitionedItems += len(workList)

	return uint32(nodeIndex)
}

// A score implementation that uses the surface area heuristic for
// calculating split scores.
type surfaceAreaHeuristic struct{}

// Score a split based on the surface area heuristic (lower is better):
//
// left count * left bbox area + right count * right bbox area.
//
// Splits that would generate an empty partition receive the worst possible
// score (MaxFloat64).
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float64) (leftCount, rightCount int, score float64) {
	lmin := types.Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	rmin := lmin
	lmax := types.Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	rmax := lmax

	for _, item := range workList {
		itemBBox := item.BBox()
		if item.Center().Axis(int(axis)) < splitPoint {
			leftCount++
			lmin = types.MinVec3(lmin, itemBBox[0])
			lmax = types.MaxVec3(lmax, itemBBox[1])
		} else {
			rightCount++
			rmin = types.MinVec3(rmin, itemBBox[0])
			rmax = types.MaxVec3(rmax, itemBBox[1])
		}
	}

	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat64
	}

	lside := lmax.Sub(lmin)
	rside := rmax.Sub(rmin)
	score = (float64(leftCount) * (lside.X*lside.Y + lside.Y*lside.Z + lside.X*lside.Z)) +
		(float64(rightCount) * (rside.X*rside.Y + rside.Y*rside.Z + rside.X*rside.Z))

	return leftCount, rightCount, score
}

// Calculate the score for an unsplit work list: count * bbox area. An empty
// work list gets the worst possible score (MaxFloat64).
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float64) {
	if len(workList) == 0 {
		return math.MaxFloat64
	}

	min := types.Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	max := types.Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, item := range workList {
		itemBBox := item.BBox()
		min = types.MinVec3(min, itemBBox[0])
		max = types.MaxVec3(max, itemBBox[1])
	}

	side := max.Sub(min)
	return float64(len(workList)) * (side.X*side.Y + side.Y*side.Z + side.X*side.Z)
}
