package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// NodeRunner feeds a ready node from a message channel until the channel is
// closed or the context is cancelled, and periodically logs a publish report.
type NodeRunner interface {
	Run(ctx context.Context) error
}

type NodeRunnerParams struct {
	Node     *MQTTNode
	NodeCtx  NodeContext
	Messages <-chan Message

	ReportInterval time.Duration

	Log zerolog.Logger
}

type nodeRunner struct {
	params NodeRunnerParams

	log zerolog.Logger
}

func NewNodeRunner(params NodeRunnerParams) (NodeRunner, error) {
	if params.Node == nil {
		return nil, fmt.Errorf("Node is nil")
	}
	if params.NodeCtx == nil {
		return nil, fmt.Errorf("NodeCtx is nil")
	}
	if params.Messages == nil {
		return nil, fmt.Errorf("Messages is nil")
	}
	if params.ReportInterval == 0 {
		params.ReportInterval = 30 * time.Second
	}
	return &nodeRunner{params: params, log: params.Log}, nil
}

func (r nodeRunner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := errgroup.Group{}

	// message handler
	g.Go(func() error {
		defer cancel()

		r.log.Info().Msg("start publishing")
		defer r.log.Info().Msg("stop publishing")

		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-r.params.Messages:
				if !ok {
					return nil
				}
				if err := r.params.Node.OnMsg(r.params.NodeCtx, msg); err != nil {
					return err
				}
			}
		}
	})

	// publish report
	g.Go(func() error {
		ticker := time.NewTicker(r.params.ReportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				status := r.params.Node.Status()
				r.log.Info().
					Uint64("msg_count", status.MessageCount).
					Bool("is_connected", status.Connected).
					Time("last_time_published", status.LastTimePublished).
					Msg("publish report")
			}
		}
	})

	return g.Wait()
}
