package model

import "time"

type ReadLog struct {
	ID      int64
	OwnerID int64
	PostURL string
	ReadAt  time.Time
}
