package logger

import (
	"strings"

	"go.uber.org/fx/fxevent"
)

// FxLoggerAdapter routes fx lifecycle events into this package's leveled logger.
// Container wiring noise goes to DEBUG; failures go to ERROR.
type FxLoggerAdapter struct{}

// NewFxLoggerAdapter creates a new instance of FxLoggerAdapter.
func NewFxLoggerAdapter() fxevent.Logger {
	return &FxLoggerAdapter{}
}

// LogEvent logs events from Fx.
func (l *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			Errorf("fx: start hook %s failed: %v", shortFuncName(e.FunctionName), e.Err)
			return
		}
		Debugf("fx: start hook %s done in %s", shortFuncName(e.FunctionName), e.Runtime)
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			Errorf("fx: stop hook %s failed: %v", shortFuncName(e.FunctionName), e.Err)
			return
		}
		Debugf("fx: stop hook %s done in %s", shortFuncName(e.FunctionName), e.Runtime)
	case *fxevent.Provided:
		if e.Err != nil {
			Errorf("fx: provide failed: %v", e.Err)
			return
		}
		for _, name := range e.OutputTypeNames {
			Debugf("fx: provided %s", name)
		}
	case *fxevent.Supplied:
		if e.Err != nil {
			Errorf("fx: supply of %s failed: %v", e.TypeName, e.Err)
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			Errorf("fx: invoke %s failed: %v", e.FunctionName, e.Err)
		}
	case *fxevent.Stopping:
		Debugf("fx: received %s, stopping", strings.ToUpper(e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			Errorf("fx: stop failed: %v", e.Err)
		}
	case *fxevent.RollingBack:
		Errorf("fx: start failed, rolling back: %v", e.StartErr)
	case *fxevent.RolledBack:
		if e.Err != nil {
			Errorf("fx: rollback failed: %v", e.Err)
		}
	case *fxevent.Started:
		if e.Err != nil {
			Errorf("fx: start failed: %v", e.Err)
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			Errorf("fx: logger initialization failed: %v", e.Err)
		}
	}
}

// shortFuncName strips the anonymous closure suffix (".func1") fx reports for hooks.
func shortFuncName(funcName string) string {
	if idx := strings.LastIndex(funcName, ".func"); idx != -1 {
		return funcName[:idx]
	}
	return funcName
}
