package login

import (
	"crypto/rand"
	"encoding/hex"
)

func newSessionToken() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// newCompanyKey mints the short shared secret repartidores type in when
// enrolling. Short on purpose; it is handed around verbally.
func newCompanyKey() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
