package bot

import (
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
	"guardian-bot/store"
	"guardian-bot/utils"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetStore() *store.Store
	GetDB() *sqlx.DB
}

// Scheduler manages the periodic maintenance tasks.
type Scheduler struct {
	bot           BotProvider
	done          chan struct{}
	wg            sync.WaitGroup
	cleanupTicker *time.Ticker
}

func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins the maintenance loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop terminates the maintenance loop gracefully.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	s.cleanupTicker = time.NewTicker(1 * time.Hour)
	defer s.cleanupTicker.Stop()

	for {
		select {
		case <-s.cleanupTicker.C:
			log.Println("Cleaning up ban cooldowns...")
			utils.CleanupBanCooldowns()

			purged, err := s.bot.GetStore().PurgeExpiredBackups(time.Now())
			if err != nil {
				log.Printf("Error purging expired role backups: %v", err)
			} else if purged > 0 {
				log.Printf("Purged %d expired role backup(s)", purged)
			}
		case <-s.done:
			return
		}
	}
}
