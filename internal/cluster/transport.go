package cluster

import (
	"context"
	"fmt"
)

// Transport carries frames between the coordinator and the workers.
// Point-to-point ordering between different workers is not guaranteed.
type Transport interface {
	// Workers returns the number of worker ranks the transport connects
	Workers() int
	// Broadcast delivers the same frame to every worker
	Broadcast(ctx context.Context, frame []byte) error
	// Receive blocks until the frame addressed to rank arrives
	Receive(ctx context.Context, rank int) ([]byte, error)
	// Report sends a worker's frame to the coordinator
	Report(ctx context.Context, frame []byte) error
	// Gather blocks until the next worker frame arrives at the coordinator
	Gather(ctx context.Context) ([]byte, error)
}

// LocalTransport connects workers running in the same process through buffered channels of frames.
type LocalTransport struct {
	inboxes []chan []byte
	reports chan []byte
}

// NewLocalTransport creates a transport for the given number of workers.
// Every channel holds one frame per sender, so neither a broadcast nor a report ever blocks.
func NewLocalTransport(workers int) *LocalTransport {
	inboxes := make([]chan []byte, workers)
	for i := range inboxes {
		inboxes[i] = make(chan []byte, 1)
	}
	return &LocalTransport{
		inboxes: inboxes,
		reports: make(chan []byte, workers),
	}
}

func (t *LocalTransport) Workers() int {
	return len(t.inboxes)
}

func (t *LocalTransport) Broadcast(ctx context.Context, frame []byte) error {
	for rank, inbox := range t.inboxes {
		// Each worker gets its own copy of the bytes
		own := make([]byte, len(frame))
		copy(own, frame)
		select {
		case inbox <- own:
		case <-ctx.Done():
			return fmt.Errorf("broadcast to rank %d interrupted: %w", rank, ctx.Err())
		}
	}
	return nil
}

func (t *LocalTransport) Receive(ctx context.Context, rank int) ([]byte, error) {
	if rank < 0 || rank >= len(t.inboxes) {
		return nil, fmt.Errorf("rank %d is outside [0, %d)", rank, len(t.inboxes))
	}
	select {
	case frame := <-t.inboxes[rank]:
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *LocalTransport) Report(ctx context.Context, frame []byte) error {
	select {
	case t.reports <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *LocalTransport) Gather(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-t.reports:
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
