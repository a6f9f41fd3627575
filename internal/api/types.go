package api

import "time"

// User is a directory entry as returned by the server.
type User struct {
	UserID         int    `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role,omitempty"`
	AccountStatus  string `json:"account_status,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	IsLogged       bool   `json:"isLogged,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// DisplayName returns the best human-readable name for a user
func (u User) DisplayName() string {
	if u.FirstName != "" || u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// Group is a group room the current user belongs to. RoomCode is the
// encrypted invite code other users redeem via JoinGroup.
type Group struct {
	RoomID      int    `json:"room_id"`
	RoomName    string `json:"room_name"`
	RoomCode    string `json:"room_code,omitempty"`
	RoomPicture string `json:"room_picture,omitempty"`
	Users       []User `json:"users"`
}

// DirectRoom is a direct-message room. Users holds the other participants
// (the server filters out the requesting user).
type DirectRoom struct {
	RoomID int    `json:"room_id"`
	Users  []User `json:"users"`
}

// MessageType discriminates text messages from file messages.
type MessageType string

const (
	MessageText MessageType = "text"
	MessageFile MessageType = "file"
)

// Attachment describes an uploaded file carried by a file message.
type Attachment struct {
	Link string `json:"link"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Message is a single chat message, both on the wire and in the timeline.
// Exactly one of Body (text) or Attachment (file) is meaningful per Type.
// LocalID is set on outbound messages only, to correlate optimistic
// timeline entries with emitted frames in the debug log.
type Message struct {
	LocalID    string      `json:"local_id,omitempty"`
	RoomID     int         `json:"room_id"`
	SenderID   int         `json:"user_id"`
	SenderName string      `json:"username,omitempty"`
	Body       string      `json:"message"`
	Type       MessageType `json:"message_type"`
	Timestamp  time.Time   `json:"timestamp"`
	Attachment *Attachment `json:"attachments,omitempty"`
}

// UploadResult is the stored link/name/size triple returned by the upload
// endpoint.
type UploadResult struct {
	Link string `json:"link"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Notification is a server-side notification for the current user.
type Notification struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ProfileUpdate is the payload for profile edits. Empty fields other than
// Password are sent as-is; an empty Password keeps the current one.
type ProfileUpdate struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Picture   string `json:"profile_picture,omitempty"`
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}
