package domain

// NoticeLevel classifies a user-facing notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a one-shot message for the user, shown once and then discarded.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func SuccessNotice(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }
func ErrorNotice(msg string) Notice   { return Notice{Level: NoticeError, Message: msg} }
