package commands

import "github.com/bwmarrin/discordgo"

// GenerateCommands builds the full application command set.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "globalban",
			Description: "Ban a user in every linked server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to ban",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the user is being banned",
					Required:    true,
				},
			},
		},
		{
			Name:        "globalunban",
			Description: "Lift a global ban in every linked server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to unban",
					Required:    true,
				},
			},
		},
		{
			Name:        "checkban",
			Description: "Check a user's global ban status and history",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to check",
					Required:    true,
				},
			},
		},
		{
			Name:        "globallinkserver",
			Description: "Add this server to the global ban network",
		},
		{
			Name:        "ungloballink",
			Description: "Remove a server from the global ban network",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "guild_id",
					Description: "Server ID to unlink (defaults to this server)",
					Required:    false,
				},
			},
		},
		{
			Name:        "listlinkedguilds",
			Description: "List the servers in the global ban network",
		},
		{
			Name:        "setlinkpermission",
			Description: "Manage who may edit the guild link list",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adduser",
					Description: "Allow a user to manage guild links",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The user to allow",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "removeuser",
					Description: "Revoke a user's link management access",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The user to revoke",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "addrole",
					Description: "Allow a role to manage guild links",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role to allow",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "removerole",
					Description: "Revoke a role's link management access",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role to revoke",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the current link permissions",
				},
			},
		},
		{
			Name:        "setglobalrole",
			Description: "Manage which roles may use global bans in this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Authorize a role",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role to authorize",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Revoke a role's authorization",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role to revoke",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "restoreroles",
			Description: "Restore a rejoined member's backed-up roles",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to restore",
					Required:    true,
				},
			},
		},
		{
			Name:        "assignrole",
			Description: "Assign a role to a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The role to assign",
					Required:    true,
				},
			},
		},
		{
			Name:        "unassignrole",
			Description: "Remove a role from a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The role to remove",
					Required:    true,
				},
			},
		},
		{
			Name:        "unassignmultiple",
			Description: "Remove up to five roles from a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role1",
					Description: "First role to remove",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role2",
					Description: "Second role to remove",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role3",
					Description: "Third role to remove",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role4",
					Description: "Fourth role to remove",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role5",
					Description: "Fifth role to remove",
					Required:    false,
				},
			},
		},
		{
			Name:        "roleall",
			Description: "Grant or remove a role for every member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The role to sweep",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "remove",
					Description: "Remove the role instead of granting it",
					Required:    false,
				},
			},
		},
		{
			Name:        "requestrole",
			Description: "Request a role from the moderators",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The role you want",
					Required:    true,
				},
			},
		},
		{
			Name:        "setuprequestrole",
			Description: "Configure where role requests are reviewed",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel for approval prompts",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "approver_role",
					Description: "Role that may approve requests",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "approver_role2",
					Description: "Additional approver role",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "approver_role3",
					Description: "Additional approver role",
					Required:    false,
				},
			},
		},
		{
			Name:        "setupautorole",
			Description: "Configure the role granted to new members",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set the automatic role",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role to grant on join",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Disable the automatic role",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the current automatic role",
				},
			},
		},
		{
			Name:        "setupverify",
			Description: "Post the verification prompt in this channel",
		},
		{
			Name:        "forceverify",
			Description: "Verify a member who cannot use the button",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to verify",
					Required:    true,
				},
			},
		},
		{
			Name:        "mute",
			Description: "Time out a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to mute",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "duration",
					Description: "Duration in minutes",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the member is being muted",
					Required:    false,
				},
			},
		},
		{
			Name:        "setdmforward",
			Description: "Forward DMs sent to the bot into a channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "The channel to forward DMs to",
					Required:    true,
				},
			},
		},
		{
			Name:        "systeminfo",
			Description: "Show host and runtime statistics",
		},
	}
}
