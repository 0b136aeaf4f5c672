package dlmm

import (
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// Option configures a DLMM.
type Option func(*DLMM)

// WithConfig replaces the protocol constants. The default is shared.DefaultConfig().
func WithConfig(cfg shared.Config) Option {
	return func(d *DLMM) { d.cfg = cfg }
}

// WithProgramID sets the program the PDAs are derived for.
func WithProgramID(programID solanago.PublicKey) Option {
	return func(d *DLMM) { d.programID = programID }
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *DLMM) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock sets the time source used when a request carries no timestamp.
func WithClock(now func() time.Time) Option {
	return func(d *DLMM) {
		if now != nil {
			d.now = now
		}
	}
}
