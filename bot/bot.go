package bot

import (
	"log"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
	"guardian-bot/store"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	Store              *store.Store
	DB                 *sqlx.DB
	scheduler          *Scheduler
	done               chan struct{}
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetStore() *store.Store {
	return b.Store
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config, st *store.Store, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	// Member role snapshots are needed to diff role updates and to back up
	// roles on removal.
	dg.StateEnabled = true
	dg.State.TrackMembers = true
	dg.State.TrackRoles = true

	b := &Bot{
		Session: dg,
		Store:   st,
		DB:      db,
		done:    make(chan struct{}),
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	close(b.done)
	b.scheduler.Stop()
	b.Session.Close()
}
