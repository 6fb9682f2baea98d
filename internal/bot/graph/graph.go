package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/snackerbot/server/internal/bot/graph/nodes"
	"github.com/snackerbot/server/internal/bot/graph/observers"
	"github.com/snackerbot/server/internal/bot/menus"
	"github.com/snackerbot/server/internal/bot/model"
	logx "github.com/snackerbot/server/pkg/logger"
)

// maxRunSteps covers resolver → branch → terminal node with room to spare.
const maxRunSteps = 10

// Runner executes one selection step.
type Runner interface {
	Invoke(ctx context.Context, in model.SelectionEvent) (model.Reply, error)
}

// Config holds what the selection graph reads from.
type Config struct {
	Cache     *menus.Cache
	Refresher nodes.Refresher
}

// GraphBuilder handles the construction of the selection graph.
type GraphBuilder struct {
	reader *nodes.MenuReader
	graph  *compose.Graph[model.SelectionEvent, model.Reply]
}

type graphRunner struct {
	runnable compose.Runnable[model.SelectionEvent, model.Reply]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.SelectionEvent) (model.Reply, error) {
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewSelectionCallbacks()))
}

// BuildSelectionGraph compiles the hall → meal → menu state machine:
//
//	START → InputResolver ─┬→ HallPrompt   → END
//	                       ├→ MealPrompt   → END
//	                       ├→ MenuResolver → END
//	                       └→ UnknownHall  → END
func BuildSelectionGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Cache == nil {
		return nil, fmt.Errorf("menu cache is nil")
	}
	if cfg.Refresher == nil {
		return nil, fmt.Errorf("refresher is nil")
	}

	b := &GraphBuilder{
		reader: nodes.NewMenuReader(cfg.Cache, cfg.Refresher),
		graph:  compose.NewGraph[model.SelectionEvent, model.Reply](),
	}

	if err := b.addNodes(); err != nil {
		return nil, err
	}
	if err := b.addEdges(); err != nil {
		return nil, err
	}
	if err := b.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := b.compile(ctx)
	if err != nil {
		return nil, err
	}
	return &graphRunner{runnable: runnable}, nil
}

func (b *GraphBuilder) addNodes() error {
	lambdas := []struct {
		key    string
		lambda *compose.Lambda
	}{
		{nodes.NodeInputResolver, nodes.NewInputResolverNode()},
		{nodes.NodeHallPrompt, nodes.NewHallPromptNode()},
		{nodes.NodeMealPrompt, nodes.NewMealPromptNode(b.reader)},
		{nodes.NodeMenuResolver, nodes.NewMenuResolverNode(b.reader)},
		{nodes.NodeUnknownHall, nodes.NewUnknownHallNode()},
	}
	for _, l := range lambdas {
		if err := b.graph.AddLambdaNode(l.key, l.lambda); err != nil {
			logx.Error().Err(err).Str("node", l.key).Msg("Error adding node")
			return fmt.Errorf("add node %s: %w", l.key, err)
		}
	}
	return nil
}

func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputResolver},
		{nodes.NodeHallPrompt, compose.END},
		{nodes.NodeMealPrompt, compose.END},
		{nodes.NodeMenuResolver, compose.END},
		{nodes.NodeUnknownHall, compose.END},
	}
	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *GraphBuilder) addBranches() error {
	stateBranch := compose.NewGraphBranch(
		nodes.NewStateCondition(),
		map[string]bool{
			nodes.NodeHallPrompt:   true,
			nodes.NodeMealPrompt:   true,
			nodes.NodeMenuResolver: true,
			nodes.NodeUnknownHall:  true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeInputResolver, stateBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding state branch")
		return fmt.Errorf("error adding state branch: %w", err)
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.SelectionEvent, model.Reply], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxRunSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling selection graph")
		return nil, fmt.Errorf("error compiling selection graph: %w", err)
	}
	logx.Debug().Msg("Selection graph compiled successfully")
	return runnable, nil
}
