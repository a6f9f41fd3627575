// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/ayoubkh/campuschat/internal/logger"
)

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	logger.Debug("Notification: sending - title=%q, message=%q", title, message)
	// Use empty string for icon - beeep handles platform defaults
	err := beeep.Notify(title, message, "")
	if err != nil {
		logger.Warn("Notification: failed to send: %v", err)
	}
	return err
}

// MessageReceived notifies about a message in a chat that is not currently
// open. The body is elided for file messages.
func MessageReceived(sender, chatName, body string) error {
	title := sender
	if chatName != "" && chatName != sender {
		title = sender + " · " + chatName
	}
	if body == "" {
		body = "sent a file"
	}
	return Send(title, body)
}
