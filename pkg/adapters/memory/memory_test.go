package memory_test

import (
	"testing"

	"github.com/aretw0/probe/pkg/adapters/memory"
	"github.com/aretw0/probe/pkg/ports"
)

func TestMemoryConfigStore_Contract(t *testing.T) {
	store := memory.NewConfigStore(nil)
	ports.RunConfigStoreContract(t, store)
}

func TestMemoryLocker_Contract(t *testing.T) {
	ports.RunLockerContract(t, memory.NewLocker())
}
