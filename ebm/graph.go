package ebm

import (
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//DrawInteractionGraph renders a ranking as an undirected feature graph:
//one node per feature, one edge per ranked pair, strongest pairs first, edge
//labels carrying the interaction score. topK bounds the edge count; pairs
//with zero score are never drawn.
func DrawInteractionGraph(ranking InteractionRanking, featureNames []string, topK int) (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph(graphviz.UnDirected)
	if err != nil {
		return nil, nil, err
	}

	nodes := make(map[int]*cgraph.Node)
	nodeFor := func(q int) (*cgraph.Node, error) {
		if node, ok := nodes[q]; ok {
			return node, nil
		}
		name := fmt.Sprintf("f_%d", q)
		if q < len(featureNames) && featureNames[q] != "" {
			name = featureNames[q]
		}
		node, err := graph.CreateNode(name)
		if err != nil {
			return nil, err
		}
		nodes[q] = node
		return node, nil
	}

	drawn := 0
	for _, pair := range ranking.Pairs {
		if topK <= drawn || pair.Score <= 0 {
			break
		}
		nodeA, err := nodeFor(pair.FeatureA)
		if err != nil {
			return nil, nil, err
		}
		nodeB, err := nodeFor(pair.FeatureB)
		if err != nil {
			return nil, nil, err
		}
		edge, err := graph.CreateEdge("", nodeA, nodeB)
		if err != nil {
			return nil, nil, err
		}
		edge.SetLabel(fmt.Sprintf("%.4g", pair.Score))
		drawn++
	}

	return graphViz, graph, nil
}

//RenderInteractionGraph draws the ranking and writes it straight to a file.
func RenderInteractionGraph(ranking InteractionRanking, featureNames []string, topK int, format graphviz.Format, filename string) error {
	graphViz, graph, err := DrawInteractionGraph(ranking, featureNames, topK)
	if err != nil {
		return err
	}
	return graphViz.RenderFilename(graph, format, filename)
}
