package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxTitleLen     = 200
	MaxVoterNameLen = 100
	MaxUserAgentLen = 128
	ShareCodeLen    = 8
	VoteTokenLen    = 32
)

var (
	// uuidRe matches canonical lowercase UUIDs (poll, question, option IDs).
	uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// codeRe matches share codes and vote tokens: alphanumeric only.
	codeRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidatePollID checks that a poll ID is a well-formed UUID.
func ValidatePollID(id string) (string, string) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", "pollId is required"
	}
	if !uuidRe.MatchString(id) {
		return "", "pollId must be a UUID"
	}
	return id, ""
}

// ValidateShareCode checks the share code format.
func ValidateShareCode(code string) (string, string) {
	code = strings.TrimSpace(code)
	if len(code) != ShareCodeLen {
		return "", "share code must be 8 characters"
	}
	if !codeRe.MatchString(code) {
		return "", "share code contains invalid characters"
	}
	return code, ""
}

// ValidateVoteToken checks the vote token format. Empty is allowed: open
// polls take no token.
func ValidateVoteToken(token string) (string, string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ""
	}
	if len(token) != VoteTokenLen || !codeRe.MatchString(token) {
		return "", "vote token is malformed"
	}
	return token, ""
}

// ValidateVoterName trims and bounds an optional voter display name.
func ValidateVoterName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if len(name) > MaxVoterNameLen {
		return "", "voter name cannot exceed 100 characters"
	}
	return name, ""
}

// ValidateUserAgent trims and truncates user agent to DB limits.
func ValidateUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	return ua
}
