package api

import (
	"sync"
	"time"

	"github.com/rohan/tender-scout/internal/models"
)

// batchHolder keeps the current enriched tender batch in memory. The slice
// is swapped whole on refresh and never mutated in place, so readers can
// run the filter/sort/page pipeline on it without copying.
type batchHolder struct {
	mu          sync.RWMutex
	tenders     []models.Tender
	refreshedAt time.Time
}

func (b *batchHolder) Current() []models.Tender {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tenders
}

func (b *batchHolder) Swap(tenders []models.Tender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tenders = tenders
	b.refreshedAt = time.Now()
}

func (b *batchHolder) RefreshedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}
