package utils

import (
	"strings"
)

// NormalizeInvitationCode 去掉首尾空白并转成大写，用户输入时大小写不敏感
func NormalizeInvitationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidateInvitationCode(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(invitationCodeAlphabet, c) {
			return false
		}
	}
	return true
}
