package domain

import "time"

type UserProfile struct {
	UserID     string
	FullName   string
	Department string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
