package remote

import (
	"context"
	"io"
)

// StreamItem is a progress message or an in-stream error
type StreamItem struct {
	Progress *Progress
	Err      error
}

// ChanStream adapts a channel of items to UpgradeStream; closing the channel ends the stream.
type ChanStream struct {
	ctx   context.Context
	items <-chan StreamItem
}

func (s *ChanStream) Recv() (*Progress, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	case item, ok := <-s.items:
		if !ok {
			return nil, io.EOF
		}
		return item.Progress, item.Err
	}
}

// NewChanStream creates a channel backed stream
func NewChanStream(ctx context.Context, items <-chan StreamItem) *ChanStream {
	return &ChanStream{ctx: ctx, items: items}
}

// NewSliceStream creates a stream replaying messages, followed by err when not nil
func NewSliceStream(messages []*Progress, err error) *ChanStream {
	items := make(chan StreamItem, len(messages)+1)
	for _, message := range messages {
		items <- StreamItem{Progress: message}
	}
	if err != nil {
		items <- StreamItem{Err: err}
	}
	close(items)
	return NewChanStream(context.Background(), items)
}
