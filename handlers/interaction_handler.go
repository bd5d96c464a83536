package handlers

import (
	"log"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
	"guardian-bot/model"
	"guardian-bot/utils"
)

func handleInteraction(b *bot.Bot, set *handlerSet, s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in interaction handler: %v\n%s", r, debug.Stack())
			utils.SendErrorResponse(s, i, "Something went wrong. Please try again.")
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionMessageComponent:
		handleComponent(set, s, i)
	}
}

// handleComponent routes button clicks by their parsed action kind. Custom
// IDs that fail to parse belong to stale or foreign components and are
// ignored.
func handleComponent(set *handlerSet, s *discordgo.Session, i *discordgo.InteractionCreate) {
	action, err := model.ParseAction(i.MessageComponentData().CustomID)
	if err != nil {
		log.Printf("Ignoring component with unrecognized custom ID %q: %v", i.MessageComponentData().CustomID, err)
		return
	}

	switch action.Kind {
	case model.ActionConfirmBan, model.ActionConfirmUnban:
		set.globalBan.HandleConfirmButton(s, i, action)
	case model.ActionCancelBan, model.ActionCancelUnban:
		set.globalBan.HandleCancelButton(s, i, action)
	case model.ActionApproveBan:
		set.globalBan.HandleApproveButton(s, i, action)
	case model.ActionRevokeBan:
		set.globalBan.HandleRevokeButton(s, i, action)
	case model.ActionApproveAlt:
		set.altCheck.HandleApproveButton(s, i, action)
	case model.ActionDenyAlt:
		set.altCheck.HandleDenyButton(s, i, action)
	case model.ActionApproveRoleRequest:
		set.roles.HandleApproveRoleRequest(s, i, action)
	case model.ActionDenyRoleRequest:
		set.roles.HandleDenyRoleRequest(s, i, action)
	case model.ActionVerify:
		set.roles.HandleVerifyButton(s, i)
	case model.ActionBanApproved, model.ActionBanRevoked, model.ActionAltDone, model.ActionRoleReqDone:
		set.globalBan.HandleTerminalButton(s, i)
	}
}
