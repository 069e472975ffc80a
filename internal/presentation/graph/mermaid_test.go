package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/menube/internal/presentation/graph"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/dsl"
	"github.com/stretchr/testify/assert"
)

func sampleMenu() []*domain.Node {
	b := dsl.New()
	tools := b.Add("Tools")
	tools.Add("Date").Command("date")
	tools.Add("Branches").Options("git branch", "git checkout")
	b.Add("Say \"hi\"").Emit("hi")
	return b.Nodes()
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
	}{
		{
			name: "Shapes",
			contains: []string{
				`root(("menu"))`,
				`n0["Tools"]`,
				`n0_0[["Date <br/> $ date"]]`,
				`n0_1{{"Branches <br/> ⋯ git branch"}}`,
			},
		},
		{
			name: "Edges",
			contains: []string{
				"root --> n0",
				"n0 --> n0_0",
				"n0 --> n0_1",
				"root --> n1",
			},
		},
		{
			name: "Quote Escaping",
			contains: []string{
				`n1>"Say 'hi' <br/> ⚡ hi"]`,
			},
		},
	}

	out := graph.GenerateMermaid(sampleMenu(), nil)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.NotContains(t, out, "classDef")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(sampleMenu(), &graph.Overlay{Path: domain.Path{0, 1}})

	assert.Contains(t, out, "class n0 visited;")
	assert.Contains(t, out, "class n0_1 current;")
	assert.NotContains(t, out, "class n0_0")
}

func TestGenerateMermaid_EphemeralEdges(t *testing.T) {
	nodes := []*domain.Node{{
		Label: "Branches", Kind: domain.KindSubmenu, Ephemeral: true,
		Children: []*domain.Node{{Label: "main", Kind: domain.KindOptionItem, Ephemeral: true}},
	}}

	out := graph.GenerateMermaid(nodes, nil)
	assert.Contains(t, out, "root -.-> n0")
	assert.Contains(t, out, `n0_0(["main"])`)
}
