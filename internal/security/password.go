package security

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash : хэш для сравнения, когда пользователь не найден,
// чтобы время ответа не выдавало существование email
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("lms-dummy-password-for-timing"), bcrypt.DefaultCost)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SpendPasswordCheck : выполняет сравнение с фиктивным хэшем и всегда возвращает false
func SpendPasswordCheck(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
