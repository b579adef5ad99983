package candidateid

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

const idLength = sha256.Size * 2

// Derive возвращает стабильный идентификатор кандидата.
// Каждое поле кодируется как "<длина>:<значение>", поэтому разные тройки
// не могут дать одинаковую строку для хеширования.
func Derive(firstName, secondName, jobTitle string) string {
	h := sha256.New()
	for _, field := range []string{firstName, secondName, jobTitle} {
		h.Write([]byte(strconv.Itoa(len(field))))
		h.Write([]byte{':'})
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func IsValid(id string) bool {
	if len(id) != idLength {
		return false
	}
	for _, r := range id {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
