package storage

import "strings"

const (
	KeyUsers                  = "lumen-users"
	KeyCurrentUserEmail       = "lumen-currentUserEmail"
	KeyGamificationPrefix     = "lumen-gamification-"
	KeyReminders              = "smartReminders"
	KeyStudySchedule          = "studySchedule"
	KeyAccessibility          = "lumen-accessibility"
	KeyNotificationPermission = "lumen-notificationPermission"
	KeyChatHistory            = "chatHistory"
)

func GamificationKey(email string) string {
	return KeyGamificationPrefix + strings.ToLower(strings.TrimSpace(email))
}

// RemindersKey scopes the reminder list to a user; an empty email uses the shared key.
func RemindersKey(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return KeyReminders
	}
	return KeyReminders + "-" + email
}

// ChatHistoryKey scopes the private chat transcript to a user.
func ChatHistoryKey(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return KeyChatHistory
	}
	return KeyChatHistory + "-" + email
}
