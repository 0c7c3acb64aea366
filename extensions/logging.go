package extensions

import (
	"log/slog"

	inaspects "github.com/surol/input-aspects"
)

// LoggingObserver logs control activity through slog.
type LoggingObserver struct {
	inaspects.BaseObserver
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer. A nil handler logs
// through slog.Default.
func NewLoggingObserver(handler slog.Handler) *LoggingObserver {
	logger := slog.Default()
	if handler != nil {
		logger = slog.New(handler)
	}
	return &LoggingObserver{
		BaseObserver: inaspects.NewBaseObserver("logging"),
		logger:       logger,
	}
}

func (o *LoggingObserver) OnValue(c inaspects.AnyControl, newVal, oldVal any) {
	o.logger.Debug("control value changed",
		"control", inaspects.ControlName(c),
		"old", oldVal,
		"new", newVal,
	)
}

func (o *LoggingObserver) OnStatus(c inaspects.AnyControl, newFlags, oldFlags inaspects.StatusFlags) {
	o.logger.Debug("control status changed",
		"control", inaspects.ControlName(c),
		"hasFocus", newFlags.HasFocus,
		"touched", newFlags.Touched,
		"edited", newFlags.Edited,
	)
}

func (o *LoggingObserver) OnMode(c inaspects.AnyControl, newMode, oldMode inaspects.InputMode) {
	o.logger.Info("control mode changed",
		"control", inaspects.ControlName(c),
		"old", string(oldMode),
		"new", string(newMode),
	)
}

func (o *LoggingObserver) OnStructure(c inaspects.Container, snapshot []inaspects.AnyControl) {
	o.logger.Info("container structure changed",
		"control", inaspects.ControlName(c),
		"children", len(snapshot),
	)
}

func (o *LoggingObserver) OnDone(c inaspects.AnyControl, reason any) {
	o.logger.Info("control done",
		"control", inaspects.ControlName(c),
		"reason", reason,
	)
}
