package resource

import (
	"context"
	"log/slog"
)

// NetworkBound is a Source that reads the local cache first and then hits
// the network. A cache hit produces LOADING with data; a miss or a forced
// refresh produces a bare LOADING. A successful fetch is saved before the
// SUCCESS is emitted. Save failures are logged and do not fail the stream.
type NetworkBound[T any] struct {
	Name   string
	Query  func() (T, bool)
	Fetch  func(ctx context.Context) (T, error)
	Save   func(T) error
	Logger *slog.Logger
}

func (nb NetworkBound[T]) Observe(ctx context.Context, forceRefresh bool) <-chan Resource[T] {
	ch := make(chan Resource[T], 2)
	logger := nb.Logger
	if logger == nil {
		logger = slog.Default()
	}

	go func() {
		defer close(ch)

		first := Loading[T]()
		if !forceRefresh && nb.Query != nil {
			if cached, ok := nb.Query(); ok {
				first = LoadingWith(cached)
			}
		}
		if !send(ctx, ch, first) {
			return
		}

		data, err := nb.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("fetch failed", "source", nb.Name, "error", err)
			send(ctx, ch, Failure[T](err))
			return
		}
		if nb.Save != nil {
			if err := nb.Save(data); err != nil {
				logger.Error("failed to save", "source", nb.Name, "error", err)
			}
		}
		send(ctx, ch, Success(data))
	}()

	return ch
}
