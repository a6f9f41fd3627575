// Package app contains the main Bubble Tea model wiring the UI components
// to the REST client and the realtime connection.
package app

import (
	"encoding/json"

	tea "charm.land/bubbletea/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/chat"
	"github.com/ayoubkh/campuschat/internal/config"
	"github.com/ayoubkh/campuschat/internal/realtime"
	"github.com/ayoubkh/campuschat/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// Screen represents the top-level screen
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenMain
)

// socketEventBuffer sizes the bridge channel between the read pump and the
// Bubble Tea event loop. The pump drops nothing; a full buffer blocks the
// pump until the UI drains it.
const socketEventBuffer = 64

// socketEvent is one inbound event forwarded off the read pump
type socketEvent struct {
	Event string
	Data  json.RawMessage
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	client  *api.Client
	version string // App version (injected at build time)

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chatUI  *ui.Chat
	modal   *ui.Modal
	auth    *ui.Auth

	width  int
	height int
	screen Screen
	focus  Focus

	user   api.User
	groups []api.Group
	dms    []api.DirectRoom

	conn *realtime.Conn
	ctrl *chat.Controller
	disp *chat.Dispatcher

	// events bridges socket handlers into the Bubble Tea loop. listening
	// guards against arming a second listener after logout and re-login.
	events    chan socketEvent
	listening bool

	loadingOlder bool
}

// --- Messages ---

// LoginResultMsg is sent when the login request completes
type LoginResultMsg struct {
	Token string
	Err   error
}

// RegisterResultMsg is sent when the registration request completes
type RegisterResultMsg struct {
	Status string
	Err    error
}

// ForgotResultMsg is sent when the forgot-password request completes
type ForgotResultMsg struct {
	Status string
	Err    error
}

// ResetResultMsg is sent when the reset-password request completes
type ResetResultMsg struct {
	Err error
}

// BootstrapMsg carries the initial data load after authentication
type BootstrapMsg struct {
	User   api.User
	Groups []api.Group
	DMs    []api.DirectRoom
	Conn   *realtime.Conn
	Err    error
}

// RostersMsg is sent when a roster refresh completes
type RostersMsg struct {
	Groups []api.Group
	DMs    []api.DirectRoom
	Err    error
}

// HistoryMsg carries a fetched history page
type HistoryMsg struct {
	RoomID   int
	Page     int
	Messages []api.Message
	Initial  bool
	Err      error
}

// SocketEventMsg is one event bridged from the realtime connection
type SocketEventMsg struct {
	Event string
	Data  json.RawMessage
}

// UploadResultMsg is sent when a file upload completes
type UploadResultMsg struct {
	Target chat.Target
	Result api.UploadResult
	Err    error
}

// UserSearchMsg carries user search results for the new DM modal
type UserSearchMsg struct {
	Users []api.User
	Err   error
}

// DMInitiatedMsg is sent when a direct room has been created or found
type DMInitiatedMsg struct {
	Room api.DirectRoom
	Err  error
}

// GroupCreatedMsg is sent when group creation completes
type GroupCreatedMsg struct {
	RoomID int
	Err    error
}

// GroupJoinedMsg is sent when joining a group by invite code completes
type GroupJoinedMsg struct {
	Status string
	Err    error
}

// GroupLeftMsg is sent when leaving a group completes
type GroupLeftMsg struct {
	RoomID int
	Err    error
}

// ProfileUpdatedMsg is sent when the profile update completes
type ProfileUpdatedMsg struct {
	User  api.User
	Token string
	Err   error
}

// NotificationsMsg carries the fetched notification list
type NotificationsMsg struct {
	List []api.Notification
	Err  error
}

// NotificationsClearedMsg is sent when the notification delete completes
type NotificationsClearedMsg struct {
	Err error
}

// New creates a new app model
func New(cfg *config.Config, version string) *Model {
	ui.InitModalStyles()

	m := &Model{
		config:  cfg,
		client:  api.New(cfg.GetServerURL(), cfg),
		version: version,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(),
		sidebar: ui.NewSidebar(api.User{}),
		chatUI:  ui.NewChat(),
		modal:   ui.NewModal(),
		auth:    ui.NewAuth(),
		screen:  ScreenAuth,
		focus:   FocusSidebar,
		events:  make(chan socketEvent, socketEventBuffer),
	}
	m.sidebar.SetFocused(true)
	return m
}

// Init starts the app. A saved token skips the login screen and goes
// straight to the bootstrap fetch; the token may still be rejected, which
// drops back to login.
func (m *Model) Init() tea.Cmd {
	if m.config.HasToken() {
		return m.bootstrapCmd()
	}
	return nil
}

// sink is handed to the chat controller and app-level subscriptions; it
// forwards events from the read pump into the Bubble Tea loop.
func (m *Model) sink(event string, data json.RawMessage) {
	m.events <- socketEvent{Event: event, Data: data}
}

// listenForSocketEvent returns a command that delivers the next bridged
// socket event. Re-armed by the handler after every delivery.
func (m *Model) listenForSocketEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SocketEventMsg{Event: ev.Event, Data: ev.Data}
	}
}

// activeTarget returns the selected chat, or nil
func (m *Model) activeTarget() *chat.Target {
	if m.ctrl == nil {
		return nil
	}
	return m.ctrl.Target()
}
