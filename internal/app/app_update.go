package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/ayoubkh/campuschat/internal/chat"
	"github.com/ayoubkh/campuschat/internal/keys"
	"github.com/ayoubkh/campuschat/internal/logger"
	"github.com/ayoubkh/campuschat/internal/realtime"
	"github.com/ayoubkh/campuschat/internal/ui"
	"github.com/ayoubkh/campuschat/internal/ui/modals"
)

// Update handles all messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case ui.FlashExpiredMsg:
		m.footer.ClearFlash(msg.ID)
		return m, nil
	}

	if m.screen == ScreenAuth {
		return m.updateAuth(msg)
	}
	return m.updateMain(msg)
}

// layout distributes the window across the components
func (m *Model) layout() {
	m.auth.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)

	contentHeight := m.height - ui.HeaderHeight - ui.FooterHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	m.sidebar.SetSize(ui.SidebarWidth, contentHeight)
	m.chatUI.SetSize(m.width-ui.SidebarWidth, contentHeight)
}

// --- Auth screen ---

func (m *Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if msg.String() == keys.CtrlC {
			return m, tea.Quit
		}
	case ui.AuthSubmittedMsg:
		return m.handleAuthSubmit(msg.Screen)
	case SocketEventMsg:
		// Stray events from a released connection; keep the loop armed
		return m, m.listenForSocketEvent()
	case LoginResultMsg:
		return m.handleLoginResult(msg)
	case RegisterResultMsg:
		return m.handleRegisterResult(msg)
	case ForgotResultMsg:
		return m.handleForgotResult(msg)
	case ResetResultMsg:
		return m.handleResetResult(msg)
	case BootstrapMsg:
		return m.handleBootstrap(msg)
	}

	var cmd tea.Cmd
	m.auth, cmd = m.auth.Update(msg)
	return m, cmd
}

func (m *Model) handleAuthSubmit(screen ui.AuthScreen) (tea.Model, tea.Cmd) {
	m.auth.SetBusy(true)
	switch screen {
	case ui.AuthRegister:
		return m, m.registerCmd(m.auth.RegisterRequest())
	case ui.AuthForgot:
		return m, m.forgotPasswordCmd(m.auth.ForgotEmail)
	case ui.AuthReset:
		return m, m.resetPasswordCmd(m.auth.ResetToken, m.auth.ResetPassword)
	default:
		return m, m.loginCmd(m.auth.Username, m.auth.Password)
	}
}

// --- Main screen ---

func (m *Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BootstrapMsg:
		return m.handleBootstrap(msg)
	case RostersMsg:
		return m.handleRosters(msg)
	case HistoryMsg:
		return m.handleHistory(msg)
	case SocketEventMsg:
		return m.handleSocketEvent(msg)
	case UploadResultMsg:
		return m.handleUploadResult(msg)
	case UserSearchMsg:
		return m.handleUserSearch(msg)
	case DMInitiatedMsg:
		return m.handleDMInitiated(msg)
	case GroupCreatedMsg:
		return m.handleGroupCreated(msg)
	case GroupJoinedMsg:
		return m.handleGroupJoined(msg)
	case GroupLeftMsg:
		return m.handleGroupLeft(msg)
	case ProfileUpdatedMsg:
		return m.handleProfileUpdated(msg)
	case NotificationsMsg:
		return m.handleNotifications(msg)
	case NotificationsClearedMsg:
		return m.handleNotificationsCleared(msg)
	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)
	}

	if m.modal.IsVisible() {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatUI, cmd = m.chatUI.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// The modal owns the keyboard while visible
	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	switch key {
	case keys.CtrlC:
		m.shutdown()
		return m, tea.Quit
	case keys.Tab:
		m.toggleFocus()
		return m, nil
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar && m.chatUI.HasChat() {
		m.focus = FocusChat
	} else {
		m.focus = FocusSidebar
	}
	m.sidebar.SetFocused(m.focus == FocusSidebar)
	m.chatUI.SetFocused(m.focus == FocusChat)
	m.updateFooter()
}

func (m *Model) handleSidebarKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Up, "k":
		m.sidebar.MoveUp()
		return m, nil
	case keys.Down, "j":
		m.sidebar.MoveDown()
		return m, nil
	case keys.Enter:
		return m.openSelectedChat()
	case keys.CtrlN:
		m.modal.Show(modals.NewCreateGroupState())
		return m, nil
	case "ctrl+j":
		m.modal.Show(modals.NewJoinGroupState())
		return m, nil
	case keys.CtrlD:
		m.modal.Show(modals.NewNewDMState())
		return m, nil
	case keys.CtrlP:
		m.modal.Show(modals.NewProfileState(m.user))
		return m, nil
	case keys.CtrlL:
		m.modal.Show(modals.NewNotificationsState(m.config.GetNotificationsEnabled()))
		return m, m.fetchNotificationsCmd()
	case "ctrl+o":
		return m.logout()
	}
	return m, nil
}

// logout clears the session and returns to the login screen
func (m *Model) logout() (tea.Model, tea.Cmd) {
	m.shutdown()
	m.closeChat()
	m.ctrl = nil
	m.disp = nil
	m.config.ClearToken()
	if err := m.config.Save(); err != nil {
		logger.Warn("App: failed to clear token: %v", err)
	}
	m.screen = ScreenAuth
	m.auth.SetScreen(ui.AuthLogin)
	m.auth.SetStatus("Signed out.", false)
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	t := m.activeTarget()
	if t == nil {
		return m, nil
	}

	switch msg.String() {
	case keys.Enter:
		return m.sendCurrentInput()
	case keys.Escape:
		m.closeChat()
		return m, nil
	case keys.CtrlF:
		m.modal.Show(modals.NewAttachFileState(t.Name(m.user)))
		return m, nil
	case keys.CtrlU:
		return m.loadOlderHistory()
	case "ctrl+i":
		if t.Kind == chat.TargetGroup {
			m.modal.Show(modals.NewGroupInfoState(*t.Group))
		}
		return m, nil
	case "ctrl+x":
		if t.Kind == chat.TargetGroup {
			m.modal.Show(modals.NewLeaveGroupState(t.Group.RoomName, t.RoomID))
		}
		return m, nil
	case keys.PgUp, keys.CtrlUp:
		// Scrolling to the top also pulls in older history
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.chatUI, cmd = m.chatUI.Update(msg)
		cmds = append(cmds, cmd)
		if m.chatUI.AtTop() && !m.loadingOlder {
			_, fetchCmd := m.loadOlderHistory()
			cmds = append(cmds, fetchCmd)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.chatUI, cmd = m.chatUI.Update(msg)
	return m, cmd
}

// openSelectedChat joins the chat under the sidebar cursor
func (m *Model) openSelectedChat() (tea.Model, tea.Cmd) {
	target, ok := m.sidebar.Selected()
	if !ok {
		return m, nil
	}
	if t := m.activeTarget(); t != nil && t.RoomID == target.RoomID {
		m.toggleFocus()
		return m, nil
	}
	return m.openChat(target)
}

// openChat joins a chat and prepares the timeline view
func (m *Model) openChat(target chat.Target) (tea.Model, tea.Cmd) {
	fetchNow, err := m.ctrl.Select(target)
	if err != nil {
		return m, m.flashError("Could not open chat: " + err.Error())
	}

	m.sidebar.SetActiveRoom(target.RoomID)
	m.chatUI.SetChat(target.Name(m.user), m.user.UserID)
	memberCount := 0
	if target.Kind == chat.TargetGroup {
		memberCount = len(target.Members())
	}
	m.header.SetChat(target.Name(m.user), memberCount)

	m.focus = FocusChat
	m.sidebar.SetFocused(false)
	m.chatUI.SetFocused(true)
	m.updateFooter()

	if fetchNow {
		return m, m.fetchHistoryCmd(target.RoomID, 0, true)
	}
	return m, nil
}

func (m *Model) closeChat() {
	if m.ctrl != nil {
		m.ctrl.Deselect()
	}
	m.sidebar.SetActiveRoom(0)
	m.chatUI.ClearChat()
	m.header.ClearChat()
	m.loadingOlder = false
	m.focus = FocusSidebar
	m.sidebar.SetFocused(true)
	m.chatUI.SetFocused(false)
	m.updateFooter()
}

// sendCurrentInput dispatches the textarea content as a text message
func (m *Model) sendCurrentInput() (tea.Model, tea.Cmd) {
	t := m.activeTarget()
	if t == nil {
		return m, nil
	}

	msg, err := m.disp.SendText(*t, m.chatUI.GetInput())
	if err != nil {
		return m, m.flashError(err.Error())
	}
	m.ctrl.AppendLocal(msg)
	m.chatUI.ClearInput()
	m.chatUI.SetMessages(m.ctrl.Timeline().Messages(), false)
	return m, nil
}

// loadOlderHistory advances the cursor and fetches the next older page
func (m *Model) loadOlderHistory() (tea.Model, tea.Cmd) {
	if m.loadingOlder || m.ctrl == nil {
		return m, nil
	}
	page, ok := m.ctrl.NextPage()
	if !ok {
		return m, nil
	}
	t := m.activeTarget()
	if t == nil {
		return m, nil
	}
	m.loadingOlder = true
	m.chatUI.SetLoadingOlder(true)
	m.updateFooter()
	return m, m.fetchHistoryCmd(t.RoomID, page, false)
}

func (m *Model) updateFooter() {
	m.footer.SetContext(
		m.chatUI.HasChat(),
		m.focus == FocusSidebar,
		m.loadingOlder,
		m.ctrl != nil && m.ctrl.Exhausted(),
	)
}

func (m *Model) flashError(text string) tea.Cmd {
	return m.footer.Flash(text, ui.FlashError)
}

func (m *Model) flashSuccess(text string) tea.Cmd {
	return m.footer.Flash(text, ui.FlashSuccess)
}

// shutdown tears down the room membership and the connection
func (m *Model) shutdown() {
	if m.ctrl != nil {
		m.ctrl.Close()
	}
	if m.conn != nil {
		realtime.Release()
		m.conn = nil
	}
	logger.Info("App: shutting down")
}
