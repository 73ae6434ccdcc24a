package app

import (
	"context"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/oshokin/httpkit/internal/exec"
	"github.com/oshokin/httpkit/internal/logger"
)

// progressObserver logs exchange updates and renders a byte progress bar per response body.
type progressObserver struct {
	ctx context.Context //nolint:containedctx // Updates arrive through a callback without a context.
	// newBar creates a bar, nil disables bars.
	newBar func(total int64, description ...string) *progressbar.ProgressBar

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// newProgressObserver creates an observer. Bars are shown only at info level or below,
// since debug output would tear them apart.
func newProgressObserver(ctx context.Context) *progressObserver {
	o := &progressObserver{ctx: ctx}

	if logger.Level() == zap.InfoLevel {
		o.newBar = progressbar.DefaultBytes
	}

	return o
}

// OnUpdate implements exec.Observer.
func (o *progressObserver) OnUpdate(update exec.Update) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch update.State {
	case exec.StateRequest:
		o.finishBar()
		logger.Infof(o.ctx, "%s", update)
	case exec.StateResponse:
		if update.Current == 0 {
			o.finishBar()
			logger.Infof(o.ctx, "%s %s", update.RequestLine, update.StatusLine)

			if o.newBar != nil && update.Total != 0 {
				o.bar = o.newBar(update.Total, "Downloading")
			}

			return
		}

		if o.bar != nil {
			_ = o.bar.Set64(update.Current)
		}
	case exec.StateError:
		o.abortBar()
		logger.Errorf(o.ctx, "%s", update)
	}
}

// Close completes the bar of the last response.
func (o *progressObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.finishBar()
}

func (o *progressObserver) finishBar() {
	if o.bar == nil {
		return
	}

	_ = o.bar.Finish()
	o.bar = nil
}

func (o *progressObserver) abortBar() {
	if o.bar == nil {
		return
	}

	_ = o.bar.Exit()
	o.bar = nil
}
