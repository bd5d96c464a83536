package store

import (
	"errors"
	"time"

	"guardian-bot/model"
)

// Document names. The on-disk layout is part of the product: each name maps
// to data/state/<name>.json.
const (
	docBanList         = "global_bans"
	docLinkedGuilds    = "linked_guilds"
	docGlobalRoles     = "global_roles"
	docLinkPermissions = "link_permissions"
	docPendingBans     = "pending_bans"
	docPendingAlts     = "pending_alt_checks"
	docRoleBackups     = "role_backups"
	docAutoRoles       = "auto_roles"
	docRoleRequests    = "role_requests"
	docDMForward       = "dm_forward"
)

// BackupTTL is how long a role backup stays restorable.
const BackupTTL = 24 * time.Hour

// --- Ban registry ---

func (s *Store) BanList() ([]string, error) {
	var bans []string
	if err := s.Get(docBanList, &bans); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return bans, nil
}

func (s *Store) IsBanned(userID string) (bool, error) {
	bans, err := s.BanList()
	if err != nil {
		return false, err
	}
	for _, id := range bans {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// AddBan records a global ban. Returns false if the user was already banned.
func (s *Store) AddBan(userID string) (bool, error) {
	added := false
	err := s.WithLock(docBanList, func() error {
		bans, err := s.BanList()
		if err != nil {
			return err
		}
		for _, id := range bans {
			if id == userID {
				return nil
			}
		}
		added = true
		return s.Put(docBanList, append(bans, userID))
	})
	return added, err
}

// RemoveBan lifts a global ban. Returns false if the user was not banned.
func (s *Store) RemoveBan(userID string) (bool, error) {
	removed := false
	err := s.WithLock(docBanList, func() error {
		bans, err := s.BanList()
		if err != nil {
			return err
		}
		kept := bans[:0]
		for _, id := range bans {
			if id == userID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if !removed {
			return nil
		}
		return s.Put(docBanList, kept)
	})
	return removed, err
}

// --- Linked guilds ---

func (s *Store) LinkedGuilds() ([]string, error) {
	var guilds []string
	if err := s.Get(docLinkedGuilds, &guilds); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return guilds, nil
}

func (s *Store) AddLinkedGuild(guildID string) (bool, error) {
	added := false
	err := s.WithLock(docLinkedGuilds, func() error {
		guilds, err := s.LinkedGuilds()
		if err != nil {
			return err
		}
		for _, id := range guilds {
			if id == guildID {
				return nil
			}
		}
		added = true
		return s.Put(docLinkedGuilds, append(guilds, guildID))
	})
	return added, err
}

func (s *Store) RemoveLinkedGuild(guildID string) (bool, error) {
	removed := false
	err := s.WithLock(docLinkedGuilds, func() error {
		guilds, err := s.LinkedGuilds()
		if err != nil {
			return err
		}
		kept := guilds[:0]
		for _, id := range guilds {
			if id == guildID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if !removed {
			return nil
		}
		return s.Put(docLinkedGuilds, kept)
	})
	return removed, err
}

// --- Per-guild authorized-role table ---

func (s *Store) GlobalRoles() (map[string][]string, error) {
	roles := make(map[string][]string)
	if err := s.Get(docGlobalRoles, &roles); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return roles, nil
}

func (s *Store) AddGlobalRole(guildID, roleID string) (bool, error) {
	added := false
	err := s.WithLock(docGlobalRoles, func() error {
		roles, err := s.GlobalRoles()
		if err != nil {
			return err
		}
		for _, id := range roles[guildID] {
			if id == roleID {
				return nil
			}
		}
		added = true
		roles[guildID] = append(roles[guildID], roleID)
		return s.Put(docGlobalRoles, roles)
	})
	return added, err
}

func (s *Store) RemoveGlobalRole(guildID, roleID string) (bool, error) {
	removed := false
	err := s.WithLock(docGlobalRoles, func() error {
		roles, err := s.GlobalRoles()
		if err != nil {
			return err
		}
		kept := roles[guildID][:0]
		for _, id := range roles[guildID] {
			if id == roleID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if !removed {
			return nil
		}
		if len(kept) == 0 {
			delete(roles, guildID)
		} else {
			roles[guildID] = kept
		}
		return s.Put(docGlobalRoles, roles)
	})
	return removed, err
}

// --- Link permissions ---

func (s *Store) LinkPermissions() (model.LinkPermissions, error) {
	perms := model.LinkPermissions{AllowedRoles: make(map[string][]string)}
	if err := s.Get(docLinkPermissions, &perms); err != nil && !errors.Is(err, ErrNotFound) {
		return perms, err
	}
	if perms.AllowedRoles == nil {
		perms.AllowedRoles = make(map[string][]string)
	}
	return perms, nil
}

// UpdateLinkPermissions applies fn to the permission table under its writer
// lock and persists the result.
func (s *Store) UpdateLinkPermissions(fn func(perms *model.LinkPermissions) error) error {
	return s.WithLock(docLinkPermissions, func() error {
		perms, err := s.LinkPermissions()
		if err != nil {
			return err
		}
		if err := fn(&perms); err != nil {
			return err
		}
		return s.Put(docLinkPermissions, perms)
	})
}

// --- Pending ban actions (keyed by audit message ID) ---

func (s *Store) PendingBan(messageID string) (model.PendingBan, bool, error) {
	pending := make(map[string]model.PendingBan)
	if err := s.Get(docPendingBans, &pending); err != nil && !errors.Is(err, ErrNotFound) {
		return model.PendingBan{}, false, err
	}
	p, ok := pending[messageID]
	return p, ok, nil
}

func (s *Store) PutPendingBan(messageID string, p model.PendingBan) error {
	return s.WithLock(docPendingBans, func() error {
		pending := make(map[string]model.PendingBan)
		if err := s.Get(docPendingBans, &pending); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		pending[messageID] = p
		return s.Put(docPendingBans, pending)
	})
}

func (s *Store) DeletePendingBan(messageID string) error {
	return s.WithLock(docPendingBans, func() error {
		pending := make(map[string]model.PendingBan)
		if err := s.Get(docPendingBans, &pending); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		delete(pending, messageID)
		return s.Put(docPendingBans, pending)
	})
}

// --- Pending alt checks (keyed by user ID) ---

func (s *Store) PendingAltCheck(userID string) (model.PendingAltCheck, bool, error) {
	pending := make(map[string]model.PendingAltCheck)
	if err := s.Get(docPendingAlts, &pending); err != nil && !errors.Is(err, ErrNotFound) {
		return model.PendingAltCheck{}, false, err
	}
	p, ok := pending[userID]
	return p, ok, nil
}

// PutPendingAltCheck records a flagged join, overwriting any earlier entry
// for the same user. Only the most recent join is tracked.
func (s *Store) PutPendingAltCheck(p model.PendingAltCheck) error {
	return s.WithLock(docPendingAlts, func() error {
		pending := make(map[string]model.PendingAltCheck)
		if err := s.Get(docPendingAlts, &pending); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		pending[p.UserID] = p
		return s.Put(docPendingAlts, pending)
	})
}

func (s *Store) DeletePendingAltCheck(userID string) error {
	return s.WithLock(docPendingAlts, func() error {
		pending := make(map[string]model.PendingAltCheck)
		if err := s.Get(docPendingAlts, &pending); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		delete(pending, userID)
		return s.Put(docPendingAlts, pending)
	})
}

// --- Role backups ---

func (s *Store) RoleBackup(guildID, userID string) (model.RoleBackup, bool, error) {
	backups := make(map[string]model.RoleBackup)
	if err := s.Get(docRoleBackups, &backups); err != nil && !errors.Is(err, ErrNotFound) {
		return model.RoleBackup{}, false, err
	}
	b, ok := backups[model.BackupKey(guildID, userID)]
	return b, ok, nil
}

// PutRoleBackup stores a snapshot, overwriting any existing backup for the
// same (guild, user) pair.
func (s *Store) PutRoleBackup(b model.RoleBackup) error {
	return s.WithLock(docRoleBackups, func() error {
		backups := make(map[string]model.RoleBackup)
		if err := s.Get(docRoleBackups, &backups); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		backups[model.BackupKey(b.GuildID, b.UserID)] = b
		return s.Put(docRoleBackups, backups)
	})
}

func (s *Store) DeleteRoleBackup(guildID, userID string) error {
	return s.WithLock(docRoleBackups, func() error {
		backups := make(map[string]model.RoleBackup)
		if err := s.Get(docRoleBackups, &backups); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		delete(backups, model.BackupKey(guildID, userID))
		return s.Put(docRoleBackups, backups)
	})
}

// PurgeExpiredBackups drops every backup older than BackupTTL and returns
// how many were removed.
func (s *Store) PurgeExpiredBackups(now time.Time) (int, error) {
	purged := 0
	err := s.WithLock(docRoleBackups, func() error {
		backups := make(map[string]model.RoleBackup)
		if err := s.Get(docRoleBackups, &backups); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		for key, b := range backups {
			if now.Sub(time.Unix(b.Timestamp, 0)) > BackupTTL {
				delete(backups, key)
				purged++
			}
		}
		if purged == 0 {
			return nil
		}
		return s.Put(docRoleBackups, backups)
	})
	return purged, err
}

// --- Auto roles ---

func (s *Store) AutoRole(guildID string) (model.AutoRoleConfig, bool, error) {
	configs := make(map[string]model.AutoRoleConfig)
	if err := s.Get(docAutoRoles, &configs); err != nil && !errors.Is(err, ErrNotFound) {
		return model.AutoRoleConfig{}, false, err
	}
	c, ok := configs[guildID]
	return c, ok, nil
}

func (s *Store) SetAutoRole(guildID string, cfg model.AutoRoleConfig) error {
	return s.WithLock(docAutoRoles, func() error {
		configs := make(map[string]model.AutoRoleConfig)
		if err := s.Get(docAutoRoles, &configs); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		configs[guildID] = cfg
		return s.Put(docAutoRoles, configs)
	})
}

func (s *Store) DeleteAutoRole(guildID string) error {
	return s.WithLock(docAutoRoles, func() error {
		configs := make(map[string]model.AutoRoleConfig)
		if err := s.Get(docAutoRoles, &configs); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		delete(configs, guildID)
		return s.Put(docAutoRoles, configs)
	})
}

// --- Role request setup ---

func (s *Store) RoleRequestConfig(guildID string) (model.RoleRequestConfig, bool, error) {
	configs := make(map[string]model.RoleRequestConfig)
	if err := s.Get(docRoleRequests, &configs); err != nil && !errors.Is(err, ErrNotFound) {
		return model.RoleRequestConfig{}, false, err
	}
	c, ok := configs[guildID]
	return c, ok, nil
}

func (s *Store) SetRoleRequestConfig(guildID string, cfg model.RoleRequestConfig) error {
	return s.WithLock(docRoleRequests, func() error {
		configs := make(map[string]model.RoleRequestConfig)
		if err := s.Get(docRoleRequests, &configs); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		configs[guildID] = cfg
		return s.Put(docRoleRequests, configs)
	})
}

// --- DM forwarding ---

func (s *Store) DMForwardChannels() (map[string]string, error) {
	channels := make(map[string]string)
	if err := s.Get(docDMForward, &channels); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return channels, nil
}

func (s *Store) SetDMForwardChannel(guildID, channelID string) error {
	return s.WithLock(docDMForward, func() error {
		channels, err := s.DMForwardChannels()
		if err != nil {
			return err
		}
		channels[guildID] = channelID
		return s.Put(docDMForward, channels)
	})
}
