// Package scheduler runs the periodic search reindex.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"artechway/pkg/services"
	"artechway/pkg/store"
)

type Scheduler struct {
	cron         *cron.Cron
	articles     store.ArticleStore
	search       *services.SearchService
	spec         string
	reindexEntry cron.EntryID
}

func New(articles store.ArticleStore, search *services.SearchService, spec string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		articles: articles,
		search:   search,
		spec:     spec,
	}
}

// Start registers the reindex job and starts the cron loop. Incremental
// indexing happens on every write; the periodic pass heals whatever a failed
// incremental update missed.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.spec, func() {
		count, err := s.search.ReindexAll(context.Background(), s.articles)
		if err != nil {
			log.Printf("[Cron] Reindex failed: %v", err)
			return
		}
		log.Printf("[Cron] Reindexed %d articles", count)
	})
	if err != nil {
		return err
	}
	s.reindexEntry = id

	s.cron.Start()
	log.Printf("[Cron] Scheduler started (reindex: %s)", s.spec)
	return nil
}

// NextReindex returns the next scheduled reindex time.
func (s *Scheduler) NextReindex() time.Time {
	return s.cron.Entry(s.reindexEntry).Next
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}
