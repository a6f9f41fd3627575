package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/chat"
	"github.com/ayoubkh/campuschat/internal/logger"
	"github.com/ayoubkh/campuschat/internal/realtime"
)

// requestTimeout bounds every REST call issued from the UI
const requestTimeout = 30 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (m *Model) loginCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		token, err := client.Login(ctx, username, password)
		return LoginResultMsg{Token: token, Err: err}
	}
}

func (m *Model) registerCmd(form api.RegisterRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		status, err := client.Register(ctx, form)
		return RegisterResultMsg{Status: status, Err: err}
	}
}

func (m *Model) forgotPasswordCmd(email string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		status, err := client.ForgotPassword(ctx, email)
		return ForgotResultMsg{Status: status, Err: err}
	}
}

func (m *Model) resetPasswordCmd(token, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.ResetPassword(ctx, token, password)
		return ResetResultMsg{Err: err}
	}
}

// bootstrapCmd loads the signed-in user and both rosters, then dials the
// realtime connection. Any failure surfaces as BootstrapMsg.Err.
func (m *Model) bootstrapCmd() tea.Cmd {
	client := m.client
	wsURL := m.config.WebSocketURL()
	token := m.config.GetToken()
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		user, err := client.CurrentUser(ctx)
		if err != nil {
			return BootstrapMsg{Err: err}
		}
		groups, err := client.Groups(ctx)
		if err != nil {
			return BootstrapMsg{Err: err}
		}
		dms, err := client.DMs(ctx)
		if err != nil {
			return BootstrapMsg{Err: err}
		}
		conn, err := realtime.Acquire(wsURL, token)
		if err != nil {
			return BootstrapMsg{Err: err}
		}
		return BootstrapMsg{User: user, Groups: groups, DMs: dms, Conn: conn}
	}
}

func (m *Model) refreshRostersCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		groups, err := client.Groups(ctx)
		if err != nil {
			return RostersMsg{Err: err}
		}
		dms, err := client.DMs(ctx)
		if err != nil {
			return RostersMsg{Err: err}
		}
		return RostersMsg{Groups: groups, DMs: dms}
	}
}

// fetchHistoryCmd fetches one history page for a room. The room id and page
// ride along so stale results can be recognized when they land.
func (m *Model) fetchHistoryCmd(roomID, page int, initial bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		msgs, err := client.Messages(ctx, roomID, page)
		return HistoryMsg{RoomID: roomID, Page: page, Messages: msgs, Initial: initial, Err: err}
	}
}

// uploadFileCmd validates and uploads a local file for the selected chat.
// Oversized files are rejected before any network traffic.
func (m *Model) uploadFileCmd(target chat.Target, path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return UploadResultMsg{Target: target, Err: err}
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return UploadResultMsg{Target: target, Err: err}
		}
		name := filepath.Base(path)
		if err := chat.ValidateFile(name, info.Size()); err != nil {
			return UploadResultMsg{Target: target, Err: err}
		}

		ctx, cancel := requestContext()
		defer cancel()
		result, err := client.Upload(ctx, target.RoomID, name, info.Size(), f)
		return UploadResultMsg{Target: target, Result: result, Err: err}
	}
}

func (m *Model) searchUsersCmd(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		users, err := client.Users(ctx, query)
		return UserSearchMsg{Users: users, Err: err}
	}
}

func (m *Model) initiateDMCmd(recipient api.User) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		room, err := client.InitiateDM(ctx, recipient)
		return DMInitiatedMsg{Room: room, Err: err}
	}
}

// createGroupCmd creates a group, optionally with a picture read from disk
func (m *Model) createGroupCmd(name, picturePath string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if picturePath == "" {
			roomID, err := client.CreateGroup(ctx, name, nil, "")
			return GroupCreatedMsg{RoomID: roomID, Err: err}
		}

		f, err := os.Open(picturePath)
		if err != nil {
			return GroupCreatedMsg{Err: err}
		}
		defer f.Close()
		roomID, err := client.CreateGroup(ctx, name, f, filepath.Base(picturePath))
		return GroupCreatedMsg{RoomID: roomID, Err: err}
	}
}

func (m *Model) joinGroupCmd(code string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		status, err := client.JoinGroup(ctx, code)
		return GroupJoinedMsg{Status: status, Err: err}
	}
}

func (m *Model) leaveGroupCmd(roomID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.LeaveGroup(ctx, roomID)
		return GroupLeftMsg{RoomID: roomID, Err: err}
	}
}

func (m *Model) updateProfileCmd(update api.ProfileUpdate) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		user, token, err := client.UpdateProfile(ctx, update)
		return ProfileUpdatedMsg{User: user, Token: token, Err: err}
	}
}

func (m *Model) fetchNotificationsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		list, err := client.Notifications(ctx)
		return NotificationsMsg{List: list, Err: err}
	}
}

func (m *Model) clearNotificationsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.DeleteNotifications(ctx)
		return NotificationsClearedMsg{Err: err}
	}
}

// saveToken persists a rotated or fresh token
func (m *Model) saveToken(token string) {
	m.config.SetToken(token)
	if err := m.config.Save(); err != nil {
		logger.Warn("App: failed to persist token: %v", err)
	}
}
