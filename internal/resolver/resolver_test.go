package resolver

import (
	"testing"

	"github.com/aretw0/menube/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoot() *domain.Node {
	return domain.NewRoot([]*domain.Node{
		{Label: "A", Kind: domain.KindSubmenu, Children: []*domain.Node{
			{Label: "A1", Kind: domain.KindCommand, Command: "a1"},
			{Label: "A2", Kind: domain.KindSubmenu},
		}},
		{Label: "B", Kind: domain.KindCommand, Command: "b"},
		{Label: "Opts", Kind: domain.KindSubmenu, Ephemeral: true, Children: []*domain.Node{
			{Label: "x", Kind: domain.KindOptionItem, Ephemeral: true},
		}},
	})
}

func TestCurrentNode(t *testing.T) {
	root := sampleRoot()

	tests := []struct {
		name    string
		path    domain.Path
		want    string
		wantErr error
	}{
		{"top level", domain.Path{1}, "B", nil},
		{"nested", domain.Path{0, 1}, "A2", nil},
		{"ephemeral item", domain.Path{2, 0}, "x", nil},
		{"index past end", domain.Path{3}, "", domain.ErrInvalidPath},
		{"negative index", domain.Path{-1}, "", domain.ErrInvalidPath},
		{"through a command", domain.Path{1, 0}, "", domain.ErrInvalidPath},
		{"into empty menu", domain.Path{0, 1, 0}, "", domain.ErrEmptyMenu},
		{"empty path", domain.Path{}, "", domain.ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := CurrentNode(root, tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Label)
		})
	}
}

func TestActiveSiblings(t *testing.T) {
	root := sampleRoot()

	top, err := ActiveSiblings(root, domain.Path{0})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "Opts"}, domain.Labels(top))

	inner, err := ActiveSiblings(root, domain.Path{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, domain.Labels(inner))
}

func TestParentNode(t *testing.T) {
	root := sampleRoot()

	p, err := ParentNode(root, domain.Path{1})
	require.NoError(t, err)
	assert.Nil(t, p, "no parent at the top level")

	p, err = ParentNode(root, domain.Path{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "A", p.Label)

	_, err = ParentNode(root, domain.Path{1, 0})
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestValidate(t *testing.T) {
	root := sampleRoot()
	assert.NoError(t, Validate(root, domain.Path{0, 0}))
	assert.Error(t, Validate(root, domain.Path{0, 5}))
}

func TestDurable(t *testing.T) {
	root := sampleRoot()

	assert.Equal(t, domain.Path{0, 1}, Durable(root, domain.Path{0, 1}))
	assert.Equal(t, domain.Path{2}, Durable(root, domain.Path{2, 0}))
	assert.Equal(t, domain.Path{2}, Durable(root, domain.Path{2}), "resting on the menu itself is durable")

	in := domain.Path{2, 0}
	out := Durable(root, in)
	out[0] = 9
	assert.Equal(t, domain.Path{2, 0}, in, "result does not alias input")
}
