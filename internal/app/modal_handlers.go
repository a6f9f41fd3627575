package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/ayoubkh/campuschat/internal/keys"
	"github.com/ayoubkh/campuschat/internal/logger"
	"github.com/ayoubkh/campuschat/internal/ui/modals"
)

// handleModalKey routes keys while a modal is open. Enter and Escape are
// decided here per modal type; everything else goes to the modal state.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		m.shutdown()
		return m, tea.Quit
	}

	switch state := m.modal.State.(type) {
	case *modals.CreateGroupState:
		switch key {
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		case keys.Enter:
			name := strings.TrimSpace(state.GetName())
			if name == "" {
				m.modal.SetError("Group name is required")
				return m, nil
			}
			return m, m.createGroupCmd(name, state.GetPicturePath())
		}

	case *modals.JoinGroupState:
		switch key {
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		case keys.Enter:
			code := state.GetCode()
			if code == "" {
				m.modal.SetError("Invite code is required")
				return m, nil
			}
			return m, m.joinGroupCmd(code)
		}

	case *modals.NewDMState:
		switch key {
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		case keys.Enter:
			if user, ok := state.SelectedUser(); ok {
				return m, m.initiateDMCmd(user)
			}
			if q := state.Query(); q != "" {
				state.SetSearching()
				return m, m.searchUsersCmd(q)
			}
			return m, nil
		}

	case *modals.ProfileState:
		switch key {
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		case keys.Enter:
			return m, m.updateProfileCmd(state.Values())
		}

	case *modals.NotificationsState:
		switch key {
		case keys.Escape, keys.Enter:
			m.modal.Hide()
			return m, nil
		case "c":
			if len(state.Notifications) > 0 {
				return m, m.clearNotificationsCmd()
			}
			return m, nil
		case "n":
			enabled := !m.config.GetNotificationsEnabled()
			m.config.SetNotificationsEnabled(enabled)
			if err := m.config.Save(); err != nil {
				logger.Warn("App: failed to save notification toggle: %v", err)
			}
			state.AlertsEnabled = enabled
			return m, nil
		}

	case *modals.AttachFileState:
		switch key {
		case keys.Escape:
			if !state.Uploading {
				m.modal.Hide()
			}
			return m, nil
		case keys.Enter:
			if state.Uploading {
				return m, nil
			}
			path := state.GetPath()
			if path == "" {
				m.modal.SetError("File path is required")
				return m, nil
			}
			t := m.activeTarget()
			if t == nil {
				m.modal.Hide()
				return m, nil
			}
			state.SetUploading(true)
			return m, m.uploadFileCmd(*t, path)
		}

	case *modals.LeaveGroupState:
		switch key {
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		case keys.Enter:
			confirmed := state.Confirmed()
			roomID := state.RoomID
			m.modal.Hide()
			if confirmed {
				return m, m.leaveGroupCmd(roomID)
			}
			return m, nil
		}

	case *modals.GroupInfoState:
		switch key {
		case keys.Escape, keys.Enter:
			m.modal.Hide()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}
