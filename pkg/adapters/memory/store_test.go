package memory_test

import (
	"testing"

	"github.com/aretw0/menube/pkg/adapters/memory"
	"github.com/aretw0/menube/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunPathStoreContract(t, store)
}
