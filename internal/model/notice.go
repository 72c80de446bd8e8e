package model

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient user-facing message (a toast).
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

func Success(msg string) Notice { return Notice{Kind: NoticeSuccess, Message: msg} }

func Info(msg string) Notice { return Notice{Kind: NoticeInfo, Message: msg} }
