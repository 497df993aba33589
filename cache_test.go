package depot

import (
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
)

// TestCacheBasicOperations tests the basic operations of the SimpleCache
func TestCacheBasicOperations(t *testing.T) {
	const capacity = 10
	cache := FactoryNewCache[string](capacity)

	items := []string{"item1", "item2", "item3", "item4", "item5"}
	indices := make([]int, len(items))

	for i, item := range items {
		index, err := cache.Register(item, item)
		if err != nil {
			t.Errorf("Failed to register item %s: %v", item, err)
		}
		indices[i] = index

		// Indices are dense and start at 0
		if index != i {
			t.Errorf("Index for item %s is %d, expected %d", item, index, i)
		}
	}

	for i, item := range items {
		index, found := cache.GetIndex(item)
		if !found {
			t.Errorf("Item %s not found in cache", item)
		}
		if index != indices[i] {
			t.Errorf("Index for item %s is %d, expected %d", item, index, indices[i])
		}
		if got := *cache.GetItem(index); got != item {
			t.Errorf("Item at index %d is %s, expected %s", index, got, item)
		}
	}

	if _, found := cache.GetIndex("nonexistent"); found {
		t.Errorf("Found non-existent item in cache")
	}
}

// TestCacheCapacity tests the cache capacity limits
func TestCacheCapacity(t *testing.T) {
	const capacity = 5
	cache := FactoryNewCache[int](capacity)

	for i := range capacity {
		key := fmt.Sprintf("item%d", i)
		if _, err := cache.Register(key, i); err != nil {
			t.Errorf("Failed to register item %s: %v", key, err)
		}
	}

	_, err := cache.Register("overflow", 100)
	if !eris.Is(err, ErrCacheFull) {
		t.Errorf("Register() beyond capacity error = %v, want ErrCacheFull", err)
	}

	// Replacing an existing key does not need room.
	if _, err := cache.Register("item0", 7); err != nil {
		t.Errorf("Failed to replace item0: %v", err)
	}
}

func TestCacheReplace(t *testing.T) {
	cache := FactoryNewCache[int](4)
	first, _ := cache.Register("k", 1)
	second, _ := cache.Register("k", 2)

	if first != second {
		t.Fatalf("re-registering moved the key from %d to %d", first, second)
	}
	if got := *cache.GetItem(first); got != 2 {
		t.Errorf("GetItem() = %d, want 2", got)
	}
}

// TestCacheClear tests the cache clear functionality
func TestCacheClear(t *testing.T) {
	cache := FactoryNewCache[string](10).(*SimpleCache[string])

	items := []string{"item1", "item2", "item3"}
	for _, item := range items {
		if _, err := cache.Register(item, item); err != nil {
			t.Errorf("Failed to register item %s: %v", item, err)
		}
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after clear = %d, want 0", cache.Len())
	}

	for _, item := range items {
		if _, found := cache.GetIndex(item); found {
			t.Errorf("Item %s still found after cache clear", item)
		}
	}

	for i, item := range items {
		index, err := cache.Register(item, item)
		if err != nil {
			t.Errorf("Failed to register item %s after clear: %v", item, err)
		}
		if index != i {
			t.Errorf("Index after clear is %d, expected %d", index, i)
		}
	}
}

// TestCacheWithComplexTypes tests the cache with struct values
func TestCacheWithComplexTypes(t *testing.T) {
	cache := FactoryNewCache[Position](10)

	positions := []Position{
		{X: 1.0, Y: 2.0},
		{X: 3.0, Y: 4.0},
		{X: 5.0, Y: 6.0},
	}
	keys := []string{"pos1", "pos2", "pos3"}

	for i, pos := range positions {
		if _, err := cache.Register(keys[i], pos); err != nil {
			t.Errorf("Failed to register position %v: %v", pos, err)
		}
	}

	for i, key := range keys {
		index, found := cache.GetIndex(key)
		if !found {
			t.Errorf("Position with key %s not found", key)
			continue
		}

		pos := cache.GetItem(index)
		if *pos != positions[i] {
			t.Errorf("Position at index %d is %v, expected %v", index, *pos, positions[i])
		}
		pos.X = 100
		if cache.GetItem(index).X != 100 {
			t.Errorf("GetItem() does not point into the cache")
		}
	}
}
