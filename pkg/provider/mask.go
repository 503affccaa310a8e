package provider

// MaskKey hides a secret, keeping its last 4 characters for recognition.
func MaskKey(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
