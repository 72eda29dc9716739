// Package chat описывает идентификаторы личных чатов.
//
// Чат двух пользователей адресуется строкой "chat-<id1>-<id2>", где
// идентификаторы отсортированы, поэтому оба собеседника получают один id.
package chat

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const prefix = "chat-"

// uuidLen — длина uuid в канонической записи.
const uuidLen = 36

// ErrInvalidID возвращается для строки, не являющейся id чата.
var ErrInvalidID = errors.New("некорректный идентификатор чата")

// ID возвращает идентификатор чата двух пользователей.
func ID(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return prefix + x + "-" + y
}

// Participants разбирает id чата на двух участников.
// uuid сами содержат "-", поэтому разбор идёт по фиксированной длине.
func Participants(chatID string) (uuid.UUID, uuid.UUID, error) {
	rest, ok := strings.CutPrefix(chatID, prefix)
	if !ok || len(rest) != 2*uuidLen+1 || rest[uuidLen] != '-' {
		return uuid.Nil, uuid.Nil, ErrInvalidID
	}

	a, err := uuid.Parse(rest[:uuidLen])
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidID
	}
	b, err := uuid.Parse(rest[uuidLen+1:])
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidID
	}
	if ID(a, b) != chatID {
		return uuid.Nil, uuid.Nil, ErrInvalidID
	}
	return a, b, nil
}

// IsMember сообщает, участвует ли пользователь в чате.
func IsMember(chatID string, userID uuid.UUID) bool {
	a, b, err := Participants(chatID)
	if err != nil {
		return false
	}
	return userID == a || userID == b
}

// Other возвращает собеседника userID в чате.
func Other(chatID string, userID uuid.UUID) (uuid.UUID, error) {
	a, b, err := Participants(chatID)
	if err != nil {
		return uuid.Nil, err
	}
	switch userID {
	case a:
		return b, nil
	case b:
		return a, nil
	default:
		return uuid.Nil, ErrInvalidID
	}
}
