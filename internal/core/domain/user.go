package domain

import "time"

type User struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
