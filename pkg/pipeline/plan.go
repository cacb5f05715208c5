package pipeline

import (
	"fmt"
	"io"

	"github.com/aretw0/textsum/pkg/domain"
	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Dependencies records which stage artifacts each stage reads.
var Dependencies = map[domain.StageName][]domain.StageName{
	domain.StageDataTransformation: {domain.StageDataIngestion},
	domain.StageModelTrainer:       {domain.StageDataTransformation},
	domain.StageModelEvaluation:    {domain.StageDataTransformation, domain.StageModelTrainer},
}

// Graph builds the dependency DAG over stages, keyed by slug. Dependencies on stages that are
// not part of the set are ignored so a single stage can be planned on its own.
func Graph(stages []Stage) (graph.Graph[string, Stage], error) {
	g := graph.New(func(s Stage) string { return s.Name().Slug() }, graph.Directed(), graph.Acyclic(), graph.PreventCycles())
	present := make(map[domain.StageName]bool, len(stages))
	for _, s := range stages {
		if err := g.AddVertex(s, graph.VertexAttribute("label", string(s.Name()))); err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Name(), err)
		}
		present[s.Name()] = true
	}
	for _, s := range stages {
		for _, dep := range Dependencies[s.Name()] {
			if !present[dep] {
				continue
			}
			if err := g.AddEdge(dep.Slug(), s.Name().Slug()); err != nil {
				return nil, fmt.Errorf("stage %q depends on %q: %w", s.Name(), dep, err)
			}
		}
	}
	return g, nil
}

// Plan orders stages so every stage runs after the stages it depends on. Ties keep the
// canonical stage order, then the given order.
func Plan(stages []Stage) ([]Stage, error) {
	g, err := Graph(stages)
	if err != nil {
		return nil, err
	}

	rank := make(map[string]int, len(stages))
	for i, s := range stages {
		rank[s.Name().Slug()] = len(domain.Stages) + i
	}
	for i, name := range domain.Stages {
		if _, ok := rank[name.Slug()]; ok {
			rank[name.Slug()] = i
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return rank[a] < rank[b] })
	if err != nil {
		return nil, fmt.Errorf("failed to order stages: %w", err)
	}
	out := make([]Stage, 0, len(order))
	for _, slug := range order {
		s, err := g.Vertex(slug)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteDOT renders the stage DAG in Graphviz DOT format.
func WriteDOT(w io.Writer, stages []Stage) error {
	g, err := Graph(stages)
	if err != nil {
		return err
	}
	return draw.DOT(g, w, draw.GraphAttribute("rankdir", "LR"))
}
