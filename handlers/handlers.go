package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
	"guardian-bot/handlers/altcheck"
	"guardian-bot/handlers/globalban"
	"guardian-bot/handlers/links"
	"guardian-bot/handlers/moderation"
	"guardian-bot/handlers/rolebackup"
	"guardian-bot/handlers/roles"
	"guardian-bot/handlers/rolesync"
	"guardian-bot/utils"
)

// handlerSet bundles the per-domain handlers wired at startup.
type handlerSet struct {
	globalBan  *globalban.Handler
	links      *links.Handler
	roleSync   *rolesync.Handler
	roleBackup *rolebackup.Handler
	altCheck   *altcheck.Handler
	roles      *roles.Handler
	moderation *moderation.Handler
}

func Register(b *bot.Bot) {
	cfg := b.GetConfig()
	perms := utils.Permissions{Config: cfg, Store: b.Store}

	set := &handlerSet{
		globalBan:  &globalban.Handler{Config: cfg, Store: b.Store, DB: b.DB, Perms: perms},
		links:      &links.Handler{Config: cfg, Store: b.Store, DB: b.DB, Perms: perms},
		roleSync:   &rolesync.Handler{Config: cfg},
		roleBackup: &rolebackup.Handler{Config: cfg, Store: b.Store, Perms: perms},
		altCheck:   &altcheck.Handler{Config: cfg, Store: b.Store, Perms: perms},
		roles:      &roles.Handler{Config: cfg, Store: b.Store, Perms: perms},
		moderation: &moderation.Handler{Config: cfg, Perms: perms},
	}

	b.CommandHandlers = commandHandlers(b, set)
	addHandlers(b, set)
}

func commandHandlers(b *bot.Bot, set *handlerSet) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"globalban":         set.globalBan.HandleBanCommand,
		"globalunban":       set.globalBan.HandleUnbanCommand,
		"checkban":          set.links.HandleCheckBan,
		"globallinkserver":  set.links.HandleLinkServer,
		"ungloballink":      set.links.HandleUnlinkServer,
		"listlinkedguilds":  set.links.HandleListLinkedGuilds,
		"setlinkpermission": set.links.HandleSetLinkPermission,
		"setglobalrole":     set.links.HandleSetGlobalRole,
		"restoreroles":      set.roleBackup.HandleRestoreCommand,
		"assignrole":        set.roles.HandleAssignRole,
		"unassignrole":      set.roles.HandleUnassignRole,
		"unassignmultiple":  set.roles.HandleUnassignMultiple,
		"roleall":           set.roles.HandleRoleAll,
		"requestrole":       set.roles.HandleRequestRole,
		"setuprequestrole":  set.roles.HandleSetupRoleRequest,
		"setupautorole":     set.roles.HandleSetupAutoRole,
		"forceverify":       set.roles.HandleForceVerify,
		"setupverify":       set.roles.HandleSetupVerify,
		"mute":              set.moderation.HandleMute,
		"setdmforward": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleSetDMForward(b.Store, s, i)
		},
		"systeminfo": SystemInfoHandler,
	}
}

func addHandlers(b *bot.Bot, set *handlerSet) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteraction(b, set, s, i)
	})

	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
		set.altCheck.HandleMemberAdd(s, e)
		set.roles.HandleMemberAddAutoRole(s, e)
	})

	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
		set.roleBackup.HandleMemberRemove(s, e)
	})

	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
		set.roleSync.HandleMemberUpdate(s, e)
	})

	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		HandleDMForward(b.Store, s, m)
	})
}
