// Package benchbar provides a minimal progress bar for the benchmarking
// process.
package benchbar

import (
	"github.com/schollz/progressbar/v3"
)

type Bar struct {
	pb *progressbar.ProgressBar
}

func NewBar(description string, maxItems int) *Bar {
	pb := progressbar.Default(int64(maxItems), description)
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
