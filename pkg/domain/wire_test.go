package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWire(t *testing.T) {
	ev := Event{
		Name: "built",
		Args: []any{errors.New("boom"), "out", ""},
		Result: &CommandResult{
			Command:  "make",
			Stdout:   "out",
			Err:      errors.New("boom"),
			ExitCode: 2,
			Duration: 1500 * time.Millisecond,
		},
		Path: Path{1, 0},
	}

	w := ToWire(ev)
	assert.Equal(t, []any{"boom", "out", ""}, w.Args)
	assert.Equal(t, []int{1, 0}, w.Path)
	require.NotNil(t, w.Result)
	assert.Equal(t, "boom", w.Result.Error)
	assert.Equal(t, int64(1500), w.Result.DurationMS)
	assert.Equal(t, 2, w.Result.ExitCode)
}

func TestToWire_NoResult(t *testing.T) {
	w := ToWire(Event{Name: EventPathChanged, Path: Path{0}})
	assert.Nil(t, w.Result)
	assert.Nil(t, w.Args)
}
