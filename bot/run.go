package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"guardian-bot/commands"
	"guardian-bot/utils"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering commands...")
	cmds := commands.GenerateCommands()
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", cmds)
	if err != nil {
		log.Fatalf("Cannot register commands: %v", err)
	}
	b.RegisteredCommands = registered
	log.Printf("Registered %d commands.", len(registered))

	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	if err := utils.LogInfo(b.Session, b.GetConfig().Logging.MainLogChannel, "System", "Startup", "Bot has started successfully."); err != nil {
		log.Printf("Failed to send startup log: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
