package enums

import (
	"fmt"
	"strings"
)

// ActivityAction is the fixed set of account events written to the activity log.
type ActivityAction string

const (
	ActivityActionLogin         ActivityAction = "LOGIN"
	ActivityActionGenerate      ActivityAction = "GENERATE"
	ActivityActionTTS           ActivityAction = "TTS"
	ActivityActionUpdateProfile ActivityAction = "UPDATE_PROFILE"
	ActivityActionLogout        ActivityAction = "LOGOUT"
	ActivityActionPurchase      ActivityAction = "PURCHASE"
)

var validActivityActions = []ActivityAction{
	ActivityActionLogin,
	ActivityActionGenerate,
	ActivityActionTTS,
	ActivityActionUpdateProfile,
	ActivityActionLogout,
	ActivityActionPurchase,
}

func (a ActivityAction) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical action enum.
func (a ActivityAction) IsValid() bool {
	for _, candidate := range validActivityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ActivityActions returns every known action in declaration order.
func ActivityActions() []ActivityAction {
	return append([]ActivityAction(nil), validActivityActions...)
}

// ParseActivityAction converts raw input into ActivityAction. Matching is case-insensitive.
func ParseActivityAction(value string) (ActivityAction, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validActivityActions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity action %q", value)
}
