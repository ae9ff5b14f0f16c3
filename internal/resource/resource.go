// Package resource defines the stream contract shared by every dashboard
// data source: zero or more LOADING values followed by exactly one terminal
// SUCCESS or ERROR, after which the channel is closed.
package resource

import (
	"context"
	"fmt"
)

// Status is the lifecycle state of a Resource
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "LOADING"
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports whether no further values follow.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// Resource is one emission of a data source. HasData is false for a bare
// LOADING and for ERROR.
type Resource[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Err     error
}

func Loading[T any]() Resource[T] {
	return Resource[T]{Status: StatusLoading}
}

// LoadingWith carries cached data while the fetch is still in flight.
func LoadingWith[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusLoading, Data: data, HasData: true}
}

func Success[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data, HasData: true}
}

func Failure[T any](err error) Resource[T] {
	return Resource[T]{Status: StatusError, Err: err}
}

// Source produces a fresh stream per subscription. When forceRefresh is
// true the source must bypass its cache.
type Source[T any] interface {
	Observe(ctx context.Context, forceRefresh bool) <-chan Resource[T]
}

// SourceFunc adapts a function to the Source interface
type SourceFunc[T any] func(ctx context.Context, forceRefresh bool) <-chan Resource[T]

func (f SourceFunc[T]) Observe(ctx context.Context, forceRefresh bool) <-chan Resource[T] {
	return f(ctx, forceRefresh)
}

// Fail returns a source whose every stream is a single ERROR.
func Fail[T any](err error) Source[T] {
	return SourceFunc[T](func(context.Context, bool) <-chan Resource[T] {
		ch := make(chan Resource[T], 1)
		ch <- Failure[T](err)
		close(ch)
		return ch
	})
}

// Map transforms the data of every emission of src.
func Map[T, U any](src Source[T], fn func(T) U) Source[U] {
	return SourceFunc[U](func(ctx context.Context, forceRefresh bool) <-chan Resource[U] {
		in := src.Observe(ctx, forceRefresh)
		out := make(chan Resource[U], cap(in))
		go func() {
			defer close(out)
			for r := range in {
				mapped := Resource[U]{Status: r.Status, HasData: r.HasData, Err: r.Err}
				if r.HasData {
					mapped.Data = fn(r.Data)
				}
				if !send(ctx, out, mapped) {
					return
				}
			}
		}()
		return out
	})
}

func send[T any](ctx context.Context, ch chan<- Resource[T], r Resource[T]) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
