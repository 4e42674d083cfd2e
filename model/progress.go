package model

// Progress is an optional observer for best-effort progress messages.
// Delivery is fire and forget: the callback is invoked synchronously inline
// with processing, and must not be relied on for control flow.
type Progress func(message string)

// Notify delivers one message. A nil observer is a no-op, and a panicking
// observer is swallowed so it can never corrupt a conversion.
func (p Progress) Notify(message string) {
	if p == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	p(message)
}
