// Package chat implements the realtime chat session core: room membership,
// the message timeline for the selected chat, history pagination, and
// outbound message dispatch. The rendering layer sits on top of this
// package and holds no protocol state of its own.
package chat

import "github.com/ayoubkh/campuschat/internal/api"

// TargetKind discriminates group chats from direct chats.
type TargetKind int

const (
	TargetGroup TargetKind = iota
	TargetDirect
)

func (k TargetKind) String() string {
	if k == TargetDirect {
		return "direct"
	}
	return "group"
}

// Target is the selected chat, decided once at selection time. Exactly one
// of Group/Direct is set, matching Kind.
type Target struct {
	Kind   TargetKind
	RoomID int
	Group  *api.Group
	Direct *api.DirectRoom
}

// GroupTarget selects a group room.
func GroupTarget(g api.Group) Target {
	return Target{Kind: TargetGroup, RoomID: g.RoomID, Group: &g}
}

// DirectTarget selects a direct-message room.
func DirectTarget(d api.DirectRoom) Target {
	return Target{Kind: TargetDirect, RoomID: d.RoomID, Direct: &d}
}

// Name returns the display name: the room name for groups, the other
// participant for direct chats.
func (t Target) Name(current api.User) string {
	switch t.Kind {
	case TargetGroup:
		return t.Group.RoomName
	case TargetDirect:
		for _, u := range t.Direct.Users {
			if u.UserID != current.UserID {
				return u.DisplayName()
			}
		}
		if len(t.Direct.Users) > 0 {
			return t.Direct.Users[0].DisplayName()
		}
	}
	return ""
}

// Members returns the participants of the selected chat.
func (t Target) Members() []api.User {
	switch t.Kind {
	case TargetGroup:
		return t.Group.Users
	case TargetDirect:
		return t.Direct.Users
	}
	return nil
}
