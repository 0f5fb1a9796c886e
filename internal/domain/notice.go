package domain

import (
	"fmt"
	"time"
)

type NoticeID int

type Notice struct {
	ID      NoticeID
	Message string
	At      time.Time
}

func (n Notice) String() string {
	return fmt.Sprintf("%s - %s", n.At.Format("03:04"), n.Message)
}
