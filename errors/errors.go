package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseListen    Phase = "listen"    // server socket setup
	PhaseDial      Phase = "dial"      // client connection
	PhaseHandshake Phase = "handshake" // hello/welcome exchange
	PhaseEncode    Phase = "encode"    // message to wire frame
	PhaseDecode    Phase = "decode"    // wire frame to message
	PhaseSend      Phase = "send"      // outbound delivery
	PhaseSimulate  Phase = "simulate"  // world tick
	PhasePersist   Phase = "persist"   // snapshot save/load
	PhaseBot       Phase = "bot"       // steering driver
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData    Kind = "invalid_data"
	KindUnknownChannel Kind = "unknown_channel"
	KindTooLarge       Kind = "too_large"
	KindClosed         Kind = "closed"
	KindNotFound       Kind = "not_found"
	KindUnsupported    Kind = "unsupported"
	KindCorrupt        Kind = "corrupt"
	KindBadModule      Kind = "bad_module"
	KindTrap           Kind = "trap"
)

// Error is the structured error type used throughout the module
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Detail  string
	Channel int    // protocol channel, -1 when not applicable
	Ball    uint32 // ball id, meaningful when hasBall is set
	hasBall bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Channel >= 0 {
		fmt.Fprintf(&b, " (channel %d)", e.Channel)
	}
	if e.hasBall {
		fmt.Fprintf(&b, " (ball %d)", e.Ball)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:   phase,
			Kind:    kind,
			Channel: -1,
		},
	}
}

// Channel sets the protocol channel the error relates to
func (b *Builder) Channel(ch int) *Builder {
	b.err.Channel = ch
	return b
}

// Ball sets the ball id the error relates to
func (b *Builder) Ball(id uint32) *Builder {
	b.err.Ball = id
	b.err.hasBall = true
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Decode creates a decode error for a wire frame
func Decode(detail string, cause error) *Error {
	return &Error{Phase: PhaseDecode, Kind: KindInvalidData, Detail: detail, Cause: cause, Channel: -1}
}

// Encode creates an encode error for an outbound message
func Encode(detail string, cause error) *Error {
	return &Error{Phase: PhaseEncode, Kind: KindInvalidData, Detail: detail, Cause: cause, Channel: -1}
}

// UnknownChannel creates an error for an unrecognized channel byte
func UnknownChannel(phase Phase, ch int) *Error {
	return &Error{Phase: phase, Kind: KindUnknownChannel, Channel: ch}
}

// TooLarge creates an error for a frame exceeding the protocol limit
func TooLarge(phase Phase, size, limit int) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTooLarge,
		Detail:  fmt.Sprintf("%d bytes exceeds limit %d", size, limit),
		Channel: -1,
	}
}

// Closed creates an error for an operation on a dead connection
func Closed(phase Phase, cause error) *Error {
	return &Error{Phase: phase, Kind: KindClosed, Cause: cause, Channel: -1}
}

// Persist creates a persistence error
func Persist(detail string, cause error) *Error {
	return &Error{Phase: PhasePersist, Kind: KindCorrupt, Detail: detail, Cause: cause, Channel: -1}
}

// BallNotFound creates an error for a missing ball id
func BallNotFound(phase Phase, id uint32) *Error {
	return &Error{Phase: phase, Kind: KindNotFound, Ball: id, hasBall: true, Channel: -1}
}
