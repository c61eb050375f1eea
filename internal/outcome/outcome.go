// Package outcome models the three-state result of an asynchronous use case.
package outcome

import "fmt"

// Kind tags the variant held by an Outcome.
type Kind int

const (
	KindLoading Kind = iota + 1
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FieldError is a per-field validation message reported by the backend.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// Outcome is Loading, Success(Data) or Error(Message). Data is only meaningful
// for KindSuccess; Message and Fields only for KindError.
type Outcome[T any] struct {
	Kind    Kind
	Data    T
	Message string
	Fields  []FieldError
}

func Loading[T any]() Outcome[T] {
	return Outcome[T]{Kind: KindLoading}
}

func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: KindSuccess, Data: v}
}

func Failure[T any](msg string, fields ...FieldError) Outcome[T] {
	return Outcome[T]{Kind: KindError, Message: msg, Fields: fields}
}

// Terminal reports whether o ends an invocation.
func (o Outcome[T]) Terminal() bool {
	return o.Kind == KindSuccess || o.Kind == KindError
}

func (o Outcome[T]) IsSuccess() bool { return o.Kind == KindSuccess }
func (o Outcome[T]) IsError() bool   { return o.Kind == KindError }

func (o Outcome[T]) String() string {
	switch o.Kind {
	case KindSuccess:
		return fmt.Sprintf("Success(%v)", o.Data)
	case KindError:
		return fmt.Sprintf("Error(%s)", o.Message)
	default:
		return o.Kind.String()
	}
}

// Match dispatches on the variant. Every consumer goes through here so that a
// new variant cannot be silently ignored.
func Match[T, R any](o Outcome[T], onLoading func() R, onSuccess func(T) R, onError func(string, []FieldError) R) R {
	switch o.Kind {
	case KindLoading:
		return onLoading()
	case KindSuccess:
		return onSuccess(o.Data)
	case KindError:
		return onError(o.Message, o.Fields)
	default:
		panic(fmt.Sprintf("outcome: unknown kind %d", int(o.Kind)))
	}
}

// Map transforms the Success payload and keeps the other variants as they are.
func Map[T, R any](o Outcome[T], fn func(T) R) Outcome[R] {
	return Match(o,
		Loading[R],
		func(v T) Outcome[R] { return Success(fn(v)) },
		func(msg string, fields []FieldError) Outcome[R] { return Failure[R](msg, fields...) },
	)
}

// Collect drains a sequence until it is closed.
func Collect[T any](ch <-chan Outcome[T]) []Outcome[T] {
	var out []Outcome[T]
	for o := range ch {
		out = append(out, o)
	}
	return out
}

// Last drains a sequence and returns its final element.
func Last[T any](ch <-chan Outcome[T]) (Outcome[T], bool) {
	var (
		last Outcome[T]
		seen bool
	)
	for o := range ch {
		last, seen = o, true
	}
	return last, seen
}

// MapStream applies Map to every element of a sequence. The returned channel
// closes when ch does.
func MapStream[T, R any](ch <-chan Outcome[T], fn func(T) R) <-chan Outcome[R] {
	out := make(chan Outcome[R], 2)
	go func() {
		defer close(out)
		for o := range ch {
			out <- Map(o, fn)
		}
	}()
	return out
}
