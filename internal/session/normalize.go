package session

import "strings"

// NormalizeHandle дописывает внутренний домен к логину без "@".
// Пробелы по краям отбрасываются.
func NormalizeHandle(handle, domain string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" || strings.Contains(handle, "@") {
		return handle
	}
	return handle + "@" + domain
}

// LocalPart часть логина до "@"
func LocalPart(login string) string {
	if i := strings.IndexByte(login, '@'); i >= 0 {
		return login[:i]
	}
	return login
}
