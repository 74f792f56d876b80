// Package rowbar draws a progress bar over the rows written by an
// export.
package rowbar

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar counts written rows against the expected total.
type Bar struct {
	pb *progressbar.ProgressBar
}

// NewBar creates a bar drawn on w. It is cleared once finished so the
// report that follows stays readable.
func NewBar(w io.Writer, description string, maxItems int) *Bar {
	pb := progressbar.NewOptions(maxItems,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = pb.Set(0)

	return &Bar{pb: pb}
}

func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
