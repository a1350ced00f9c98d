// Package prompt defines the operating modes of the refinement loop: the
// system instructions handed to each stage and the wrapping applied to the
// user's input.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/comigor/reflector/internal/transcript"
)

//go:embed prompts/tweet_generate.txt
var tweetGenerate string

//go:embed prompts/tweet_reflect.txt
var tweetReflect string

//go:embed prompts/audit_generate.txt
var auditGenerate string

//go:embed prompts/audit_reflect.txt
var auditReflect string

// Mode selects what the loop refines.
type Mode string

const (
	ModeTweet Mode = "tweet"
	ModeAudit Mode = "audit"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeTweet, ModeAudit}

// ParseMode resolves a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTweet:
		return ModeTweet, nil
	case ModeAudit:
		return ModeAudit, nil
	}
	return "", fmt.Errorf("unknown mode %q (want one of %v)", s, Modes)
}

// GenerateInstruction is the system instruction for the generator stage.
func (m Mode) GenerateInstruction() string {
	if m == ModeAudit {
		return strings.TrimSpace(auditGenerate)
	}
	return strings.TrimSpace(tweetGenerate)
}

// ReflectInstruction is the system instruction for the critic stage.
func (m Mode) ReflectInstruction() string {
	if m == ModeAudit {
		return strings.TrimSpace(auditReflect)
	}
	return strings.TrimSpace(tweetReflect)
}

// Seed wraps the raw input into the message that opens a transcript.
func (m Mode) Seed(input string) transcript.Message {
	var content string
	switch m {
	case ModeAudit:
		content = "Perform a security audit of the following code:\n\n```\n" + strings.TrimRight(input, "\n") + "\n```"
	default:
		content = "Make this tweet better:\n" + input
	}
	return transcript.Message{Role: transcript.RoleInput, Content: content}
}
