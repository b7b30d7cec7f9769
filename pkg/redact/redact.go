// redact маскирует чувствительные данные перед записью в лог:
// e-mail регистрируемого пользователя, адрес клиента и хэш пароля.
// Пароль в лог не пишется вовсе, bcrypt-хэш заменяется заглушкой.
package redact

import (
	"net/netip"
	"strings"
)

// Email маскирует e-mail, оставляя первые две руны локальной части и домен.
//
//	"alice@example.com" -> "al***@example.com"
//	"ab@ex.com"         -> "***@ex.com"
//	"bob@x@y"           -> "***"
func Email(s string) string {
	if strings.Count(s, "@") != 1 {
		return "***"
	}

	i := strings.IndexByte(s, '@')
	local, domain := []rune(s[:i]), s[i+1:]

	if len(local) <= 2 {
		return "***@" + domain
	}

	return string(local[:2]) + "***@" + domain
}

// Addr маскирует адрес клиента: для IPv4 обнуляется последний октет,
// для IPv6 остаётся префикс /48. Нераспознанный адрес заменяется на "***".
func Addr(s string) string {
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return "***"
	}

	bits := 48
	if ip.Is4() || ip.Is4In6() {
		ip = ip.Unmap()
		bits = 24
	}

	prefix, err := ip.Prefix(bits)
	if err != nil {
		return "***"
	}

	return prefix.String()
}

// Credential возвращает заглушку вместо хэша пароля.
func Credential() string { return "[REDACTED_CREDENTIAL]" }
