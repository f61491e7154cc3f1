package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	steps []string
	skip  bool
}

func appendStep(name string) Node[testState] {
	return func(ctx context.Context, s testState) (testState, error) {
		s.steps = append(s.steps, name)
		return s, nil
	}
}

func TestGraphRunLinear(t *testing.T) {
	g := NewGraph[testState]().
		AddNode("a", appendStep("a")).
		AddNode("b", appendStep("b")).
		AddNode("c", appendStep("c")).
		AddEdge("a", "b").
		AddEdge("b", "c").
		SetEntryPoint("a")

	out, err := g.Run(context.Background(), testState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out.steps)
}

func TestGraphConditionalRouting(t *testing.T) {
	g := NewGraph[testState]().
		AddNode("scan", appendStep("scan")).
		AddNode("extract", appendStep("extract")).
		AddConditionalEdge("scan", func(s testState) string {
			if s.skip {
				return End
			}
			return "extract"
		}).
		SetEntryPoint("scan")

	out, err := g.Run(context.Background(), testState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"scan", "extract"}, out.steps)

	out, err = g.Run(context.Background(), testState{skip: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"scan"}, out.steps)
}

func TestGraphNodeError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGraph[testState]().
		AddNode("a", appendStep("a")).
		AddNode("b", func(ctx context.Context, s testState) (testState, error) {
			return s, boom
		}).
		AddEdge("a", "b").
		SetEntryPoint("a")

	out, err := g.Run(context.Background(), testState{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, `node "b"`)
	assert.Equal(t, []string{"a"}, out.steps)
}

func TestGraphMissingPieces(t *testing.T) {
	_, err := NewGraph[testState]().Run(context.Background(), testState{})
	assert.ErrorContains(t, err, "no entry point")

	g := NewGraph[testState]().
		AddNode("a", appendStep("a")).
		AddEdge("a", "ghost").
		SetEntryPoint("a")
	_, err = g.Run(context.Background(), testState{})
	assert.ErrorContains(t, err, `no node "ghost"`)
}

func TestGraphLoopGuard(t *testing.T) {
	g := NewGraph[testState]().
		AddNode("a", appendStep("a")).
		AddEdge("a", "a").
		SetEntryPoint("a")

	_, err := g.Run(context.Background(), testState{})
	assert.ErrorContains(t, err, "exceeded")
}
