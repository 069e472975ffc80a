package tests

import (
	"context"
	"testing"

	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/ports"
)

// MenuLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.MenuLoader.
// wantLabels lists the expected top-level labels in order.
func MenuLoaderContractTest(t *testing.T, loader ports.MenuLoader, wantLabels []string) {
	t.Helper()

	t.Run("Load_TopLevel", func(t *testing.T) {
		nodes, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading menu: %v", err)
		}
		got := domain.Labels(nodes)
		if len(got) != len(wantLabels) {
			t.Fatalf("expected %d top-level items, got %d (%v)", len(wantLabels), len(got), got)
		}
		for i := range wantLabels {
			if got[i] != wantLabels[i] {
				t.Errorf("item %d: got %q, want %q", i, got[i], wantLabels[i])
			}
		}
	})

	t.Run("Load_NoRuntimeNodes", func(t *testing.T) {
		nodes, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading menu: %v", err)
		}
		var walk func([]*domain.Node)
		walk = func(ns []*domain.Node) {
			for _, n := range ns {
				if n.Ephemeral || n.Kind == domain.KindOptionItem {
					t.Errorf("loaded tree contains runtime-only node %q", n.Label)
				}
				walk(n.Children)
			}
		}
		walk(nodes)
	})

	t.Run("Load_Independent", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading menu: %v", err)
		}
		if len(first) == 0 {
			return
		}
		first[0].Label = "mutated"
		second, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading menu: %v", err)
		}
		if second[0].Label == "mutated" {
			t.Error("Load must return a fresh tree; engines mutate the tree they own")
		}
	})
}
