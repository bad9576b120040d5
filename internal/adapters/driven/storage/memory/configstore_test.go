package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var store driven.ConfigStore = NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("server.addr", ":9090"))
	val, ok := store.Get("server.addr")
	assert.True(t, ok)
	assert.Equal(t, ":9090", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("plain", "value")
	_ = store.Set("stringer", stringer("2025-10-10"))
	_ = store.Set("number", 42)

	assert.Equal(t, "value", store.GetString("plain"))
	assert.Equal(t, "2025-10-10", store.GetString("stringer"))
	assert.Equal(t, "", store.GetString("number"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetNumbers(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantInt   int
		wantFloat float64
	}{
		{name: "int", value: 3, wantInt: 3, wantFloat: 3},
		{name: "int64", value: int64(540), wantInt: 540, wantFloat: 540},
		{name: "float64", value: 2.5, wantInt: 2, wantFloat: 2.5},
		{name: "string", value: "7", wantInt: 0, wantFloat: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			_ = store.Set("k", tt.value)
			assert.Equal(t, tt.wantInt, store.GetInt("k"))
			assert.Equal(t, tt.wantFloat, store.GetFloat("k"))
		})
	}
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("on", true)
	_ = store.Set("wrong", "true")

	assert.True(t, store.GetBool("on"))
	assert.False(t, store.GetBool("wrong"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("text", "90s")
	_ = store.Set("typed", 2*time.Hour)
	_ = store.Set("bad", "soon")

	assert.Equal(t, 90*time.Second, store.GetDuration("text"))
	assert.Equal(t, 2*time.Hour, store.GetDuration("typed"))
	assert.Equal(t, time.Duration(0), store.GetDuration("bad"))
	assert.Equal(t, time.Duration(0), store.GetDuration("missing"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key%d", i), i)
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key%d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key%d", i)))
	}
}
