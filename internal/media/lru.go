package media

import (
	"container/list"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

type CachedResource struct {
	resource   fyne.Resource
	lastAccess time.Time
	size       int64
}

type LRUCache struct {
	capacity int
	cache    map[string]*list.Element
	list     *list.List
	mu       sync.Mutex
}

type lruItem struct {
	key   string
	value *CachedResource
}

func NewLRUCache(capacity int) *LRUCache {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		list:     list.New(),
	}
}

func (lru *LRUCache) Get(key string) (*CachedResource, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	if elem, ok := lru.cache[key]; ok {
		lru.list.MoveToFront(elem)
		item := elem.Value.(*lruItem)
		item.value.lastAccess = time.Now()
		return item.value, true
	}
	return nil, false
}

func (lru *LRUCache) Put(key string, value *CachedResource) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	if elem, ok := lru.cache[key]; ok {
		lru.list.MoveToFront(elem)
		elem.Value.(*lruItem).value = value
		return
	}

	if lru.list.Len() >= lru.capacity {
		lru.removeElement(lru.list.Back())
	}

	elem := lru.list.PushFront(&lruItem{key: key, value: value})
	lru.cache[key] = elem
}

// EvictOlderThan drops entries not accessed since cutoff and returns how
// many were removed.
func (lru *LRUCache) EvictOlderThan(cutoff time.Time) int {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	removed := 0
	for elem := lru.list.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*lruItem).value.lastAccess.Before(cutoff) {
			lru.removeElement(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

func (lru *LRUCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	lru.list.Remove(elem)
	delete(lru.cache, elem.Value.(*lruItem).key)
}

func (lru *LRUCache) Len() int {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	return lru.list.Len()
}

func (lru *LRUCache) Clear() {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	lru.cache = make(map[string]*list.Element)
	lru.list = list.New()
}
