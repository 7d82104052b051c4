package errors

// Level says how a failure is surfaced to the person looking at a diagram.
type Level int

const (
	// LevelSilent failures are dropped without a notice.
	LevelSilent Level = iota
	// LevelInfo failures produce a dismissable notice.
	LevelInfo
	// LevelBlocking failures produce a notice the user must acknowledge.
	LevelBlocking
)

func (l Level) String() string {
	switch l {
	case LevelSilent:
		return "silent"
	case LevelInfo:
		return "info"
	case LevelBlocking:
		return "blocking"
	}
	return "unknown"
}

// Severity classifies err. A nil error is silent; errors without a code are
// blocking.
func Severity(err error) Level {
	if err == nil {
		return LevelSilent
	}
	switch GetCode(err) {
	case ErrCodeMalformedID, ErrCodeNotExpandable, ErrCodeAlreadyExpanded, ErrCodeExpansionBusy:
		return LevelSilent
	case ErrCodeDepthLimit:
		return LevelInfo
	}
	return LevelBlocking
}

// Notice is a user-facing message derived from an error.
type Notice struct {
	Level   Level  `json:"-"`
	Kind    string `json:"level"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message"`
}

// NoticeFor converts err into a notice. The second result is false when the
// error should not be shown at all.
func NoticeFor(err error) (Notice, bool) {
	lvl := Severity(err)
	if lvl == LevelSilent {
		return Notice{}, false
	}
	return Notice{
		Level:   lvl,
		Kind:    lvl.String(),
		Code:    GetCode(err),
		Message: UserMessage(err),
	}, true
}
