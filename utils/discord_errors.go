package utils

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// Discord JSON error codes the bot distinguishes.
const (
	errCodeUnknownBan         = 10026
	errCodeUnknownInteraction = 10062
)

func restErrorCode(err error) (int, bool) {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code, true
	}
	return 0, false
}

// IsUnknownBan reports whether err means the user had no ban to remove.
// Fan-out unbans treat this as a non-failure.
func IsUnknownBan(err error) bool {
	code, ok := restErrorCode(err)
	return ok && code == errCodeUnknownBan
}

// IsInteractionExpired reports whether err means the interaction token is no
// longer valid, in which case callers fall back to editing the message
// directly.
func IsInteractionExpired(err error) bool {
	code, ok := restErrorCode(err)
	return ok && code == errCodeUnknownInteraction
}
