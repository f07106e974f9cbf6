package input

import (
	"fmt"

	"github.com/promptkit/promptkit/media"
)

// Role is the speaker of a chat message. Only the three defined constants
// map to flat records; anything else is rejected during flattening.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// RoleError reports a chat role outside the defined set. Flattening fails
// hard rather than guessing a role from content.
type RoleError struct {
	Role Role
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("chat role %q does not map to system, user or assistant", string(e.Role))
}

// ChatMessage is one turn of a structured transcript. Attachment slices are
// owned by the transcript and must not be mutated after the message is
// appended.
type ChatMessage struct {
	Role    Role
	Content string
	Images  []media.Image
	Videos  []media.Video
}

func System(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

func User(content string, images ...media.Image) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content, Images: images}
}

func Assistant(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}
