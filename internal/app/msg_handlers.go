package app

import (
	"encoding/json"

	tea "charm.land/bubbletea/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/chat"
	"github.com/ayoubkh/campuschat/internal/errors"
	"github.com/ayoubkh/campuschat/internal/logger"
	"github.com/ayoubkh/campuschat/internal/notification"
	"github.com/ayoubkh/campuschat/internal/realtime"
	"github.com/ayoubkh/campuschat/internal/ui"
	"github.com/ayoubkh/campuschat/internal/ui/modals"
)

// --- Auth results ---

func (m *Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.auth.SetScreen(ui.AuthLogin)
		m.auth.SetStatus(msg.Err.Error(), true)
		return m, nil
	}
	m.saveToken(msg.Token)
	m.auth.SetStatus("Signed in, loading...", false)
	return m, m.bootstrapCmd()
}

func (m *Model) handleRegisterResult(msg RegisterResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.auth.SetScreen(ui.AuthRegister)
		m.auth.SetStatus(msg.Err.Error(), true)
		return m, nil
	}
	m.auth.SetScreen(ui.AuthLogin)
	m.auth.SetStatus("Account created. Sign in with your new credentials.", false)
	return m, nil
}

func (m *Model) handleForgotResult(msg ForgotResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.auth.SetScreen(ui.AuthForgot)
		m.auth.SetStatus(msg.Err.Error(), true)
		return m, nil
	}
	m.auth.SetScreen(ui.AuthReset)
	m.auth.SetStatus("Check your email for the reset token.", false)
	return m, nil
}

func (m *Model) handleResetResult(msg ResetResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.auth.SetScreen(ui.AuthReset)
		m.auth.SetStatus(msg.Err.Error(), true)
		return m, nil
	}
	m.auth.SetScreen(ui.AuthLogin)
	m.auth.SetStatus("Password reset. Sign in with your new password.", false)
	return m, nil
}

// sessionInvalidated clears the stored token and returns to the login
// screen. Used for 401-class responses and connection loss.
func (m *Model) sessionInvalidated(status string) {
	if m.ctrl != nil {
		m.ctrl.Close()
	}
	if m.conn != nil {
		realtime.Release()
		m.conn = nil
	}
	m.closeChat()
	m.ctrl = nil
	m.disp = nil
	m.config.ClearToken()
	if err := m.config.Save(); err != nil {
		logger.Warn("App: failed to clear token: %v", err)
	}
	m.screen = ScreenAuth
	m.auth.SetScreen(ui.AuthLogin)
	m.auth.SetStatus(status, true)
}

// handleBootstrap installs the loaded state and switches to the dashboard.
// An auth failure here means the saved token is no longer valid.
func (m *Model) handleBootstrap(msg BootstrapMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logger.Warn("App: bootstrap failed: %v", msg.Err)
		if errors.GetKind(msg.Err) == errors.KindAuth {
			m.sessionInvalidated("Session expired, sign in again.")
			return m, nil
		}
		m.screen = ScreenAuth
		m.auth.SetScreen(ui.AuthLogin)
		m.auth.SetStatus(msg.Err.Error(), true)
		return m, nil
	}

	m.user = msg.User
	m.groups = msg.Groups
	m.dms = msg.DMs
	m.conn = msg.Conn
	m.ctrl = chat.NewController(m.conn, m.user, m.sink)
	m.disp = chat.NewDispatcher(m.conn, m.user)

	// Connection lifecycle events go through the same bridge as room events
	m.conn.Subscribe(realtime.EventDisconnect, func(data json.RawMessage) {
		m.sink(realtime.EventDisconnect, data)
	})

	m.sidebar.SetUser(m.user)
	m.sidebar.SetChats(m.groups, m.dms)
	m.header.SetUsername(m.user.Username)
	m.header.SetConnected(true)

	m.screen = ScreenMain
	m.focus = FocusSidebar
	m.sidebar.SetFocused(true)
	m.layout()
	m.updateFooter()

	logger.Info("App: signed in as %s (user %d)", m.user.Username, m.user.UserID)
	if m.listening {
		return m, nil
	}
	m.listening = true
	return m, m.listenForSocketEvent()
}

func (m *Model) handleRosters(msg RostersMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.GetKind(msg.Err) == errors.KindAuth {
			m.sessionInvalidated("Session expired, sign in again.")
			return m, nil
		}
		return m, m.flashError("Could not refresh chats: " + msg.Err.Error())
	}
	m.groups = msg.Groups
	m.dms = msg.DMs
	m.sidebar.SetChats(m.groups, m.dms)
	return m, nil
}

// --- Timeline ---

func (m *Model) handleHistory(msg HistoryMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.loadingOlder = false
		m.chatUI.SetLoadingOlder(false)
		m.updateFooter()
		if errors.GetKind(msg.Err) == errors.KindAuth {
			m.sessionInvalidated("Session expired, sign in again.")
			return m, nil
		}
		return m, m.flashError("Could not load messages: " + msg.Err.Error())
	}

	if msg.Initial {
		if m.ctrl.CommitInitial(msg.RoomID, msg.Messages) {
			m.chatUI.SetMessages(m.ctrl.Timeline().Messages(), false)
		}
		return m, nil
	}

	m.loadingOlder = false
	m.chatUI.SetLoadingOlder(false)
	if m.ctrl.CommitOlder(msg.RoomID, msg.Messages) {
		if m.ctrl.Exhausted() {
			m.chatUI.SetExhausted(true)
		} else {
			m.chatUI.SetMessages(m.ctrl.Timeline().Messages(), true)
		}
	}
	m.updateFooter()
	return m, nil
}

// --- Socket events ---

func (m *Model) handleSocketEvent(msg SocketEventMsg) (tea.Model, tea.Cmd) {
	switch msg.Event {
	case realtime.EventReceiveMessage:
		return m.handleReceiveMessage(msg.Data)
	case realtime.EventDirectRoomJoined:
		return m.handleDirectRoomJoined(msg.Data)
	case realtime.EventDisconnect:
		return m.handleDisconnect()
	}
	return m, m.listenForSocketEvent()
}

func (m *Model) handleReceiveMessage(data json.RawMessage) (tea.Model, tea.Cmd) {
	var msg api.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("App: bad receiveMessage payload: %v", err)
		return m, m.listenForSocketEvent()
	}

	t := m.activeTarget()
	if t != nil && t.RoomID == msg.RoomID {
		if m.ctrl.AppendLive(msg) {
			m.chatUI.SetMessages(m.ctrl.Timeline().Messages(), false)
		}
		return m, m.listenForSocketEvent()
	}

	// Message for a chat that is not open
	if msg.SenderID != m.user.UserID {
		m.sidebar.MarkUnread(msg.RoomID)
		if m.config.GetNotificationsEnabled() {
			sender := msg.SenderName
			body := msg.Body
			if msg.Type == api.MessageFile {
				body = ""
			}
			go notification.MessageReceived(sender, m.chatNameForRoom(msg.RoomID), body)
		}
	}
	return m, m.listenForSocketEvent()
}

func (m *Model) handleDirectRoomJoined(data json.RawMessage) (tea.Model, tea.Cmd) {
	var payload realtime.DirectRoomJoinedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Warn("App: bad directRoomJoined payload: %v", err)
		return m, m.listenForSocketEvent()
	}

	cmds := []tea.Cmd{m.listenForSocketEvent()}
	if m.ctrl.HandleDirectRoomJoined(payload.RoomID) {
		cmds = append(cmds, m.fetchHistoryCmd(payload.RoomID, 0, true))
	}
	return m, tea.Batch(cmds...)
}

// handleDisconnect treats a dropped connection as session invalidation:
// the token is cleared and the user is sent back to the login screen.
func (m *Model) handleDisconnect() (tea.Model, tea.Cmd) {
	logger.Warn("App: realtime connection lost, session invalidated")
	m.header.SetConnected(false)
	m.conn = nil // the read pump already cleared the singleton
	m.sessionInvalidated("Connection lost, sign in again.")
	return m, m.listenForSocketEvent()
}

// chatNameForRoom resolves a room id to its sidebar display name
func (m *Model) chatNameForRoom(roomID int) string {
	for i := range m.groups {
		if m.groups[i].RoomID == roomID {
			return m.groups[i].RoomName
		}
	}
	for i := range m.dms {
		if m.dms[i].RoomID == roomID {
			return chat.DirectTarget(m.dms[i]).Name(m.user)
		}
	}
	return ""
}

// --- Modal results ---

func (m *Model) handleUploadResult(msg UploadResultMsg) (tea.Model, tea.Cmd) {
	state, isAttach := m.modal.State.(*modals.AttachFileState)

	if msg.Err != nil {
		if isAttach {
			state.SetUploading(false)
			m.modal.SetError(msg.Err.Error())
			return m, nil
		}
		return m, m.flashError("Upload failed: " + msg.Err.Error())
	}

	sent, err := m.disp.SendFile(msg.Target, msg.Result)
	if err != nil {
		return m, m.flashError("Could not send file: " + err.Error())
	}
	m.ctrl.AppendLocal(sent)
	m.chatUI.SetMessages(m.ctrl.Timeline().Messages(), false)
	if isAttach {
		m.modal.Hide()
	}
	return m, m.flashSuccess("File sent")
}

func (m *Model) handleUserSearch(msg UserSearchMsg) (tea.Model, tea.Cmd) {
	state, ok := m.modal.State.(*modals.NewDMState)
	if !ok {
		return m, nil
	}
	if msg.Err != nil {
		state.SetResults(nil)
		m.modal.SetError(msg.Err.Error())
		return m, nil
	}

	// The current user is not a valid DM recipient
	users := msg.Users[:0]
	for _, u := range msg.Users {
		if u.UserID != m.user.UserID {
			users = append(users, u)
		}
	}
	state.SetResults(users)
	return m, nil
}

func (m *Model) handleDMInitiated(msg DMInitiatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.modal.SetError(msg.Err.Error())
		return m, nil
	}
	m.modal.Hide()

	cmds := []tea.Cmd{m.refreshRostersCmd()}
	if msg.Room.RoomID != 0 {
		_, openCmd := m.openChat(chat.DirectTarget(msg.Room))
		cmds = append(cmds, openCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleGroupCreated(msg GroupCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.modal.SetError(msg.Err.Error())
		return m, nil
	}
	m.modal.Hide()
	return m, tea.Batch(m.refreshRostersCmd(), m.flashSuccess("Group created"))
}

func (m *Model) handleGroupJoined(msg GroupJoinedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.modal.SetError(msg.Err.Error())
		return m, nil
	}
	m.modal.Hide()
	return m, tea.Batch(m.refreshRostersCmd(), m.flashSuccess("Joined group"))
}

func (m *Model) handleGroupLeft(msg GroupLeftMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.flashError("Could not leave group: " + msg.Err.Error())
	}
	if t := m.activeTarget(); t != nil && t.RoomID == msg.RoomID {
		m.closeChat()
	}
	return m, tea.Batch(m.refreshRostersCmd(), m.flashSuccess("Left group"))
}

func (m *Model) handleProfileUpdated(msg ProfileUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.modal.SetError(msg.Err.Error())
		return m, nil
	}
	m.user = msg.User
	if msg.Token != "" {
		m.saveToken(msg.Token)
	}
	m.sidebar.SetUser(m.user)
	m.header.SetUsername(m.user.Username)
	m.modal.Hide()
	return m, m.flashSuccess("Profile updated")
}

func (m *Model) handleNotifications(msg NotificationsMsg) (tea.Model, tea.Cmd) {
	state, ok := m.modal.State.(*modals.NotificationsState)
	if !ok {
		return m, nil
	}
	if msg.Err != nil {
		state.SetNotifications(nil)
		m.modal.SetError(msg.Err.Error())
		return m, nil
	}
	state.SetNotifications(msg.List)
	return m, nil
}

func (m *Model) handleNotificationsCleared(msg NotificationsClearedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.modal.SetError(msg.Err.Error())
		return m, nil
	}
	if state, ok := m.modal.State.(*modals.NotificationsState); ok {
		state.Clear()
	}
	return m, nil
}
