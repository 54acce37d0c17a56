package scheduler

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/statekit"
)

const (
	eventStart   = "start"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventReset   = "reset"
)

type machineContext struct{}

// statusMachine guards the scheduler's status transitions.
type statusMachine struct {
	mu          sync.Mutex
	interpreter *statekit.Interpreter[machineContext]
}

func newStatusMachine() (*statusMachine, error) {
	builder := statekit.NewMachine[machineContext]("sync-scheduler").
		WithInitial(statekit.StateID(StatusIdle)).
		WithContext(machineContext{})

	builder.State(statekit.StateID(StatusIdle)).
		On(eventStart).Target(statekit.StateID(StatusSyncing)).
		Done()

	builder.State(statekit.StateID(StatusSyncing)).
		On(eventSucceed).Target(statekit.StateID(StatusSuccess)).
		On(eventFail).Target(statekit.StateID(StatusError)).
		Done()

	builder.State(statekit.StateID(StatusSuccess)).
		On(eventReset).Target(statekit.StateID(StatusIdle)).
		Done()

	builder.State(statekit.StateID(StatusError)).
		On(eventReset).Target(statekit.StateID(StatusIdle)).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build status machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &statusMachine{interpreter: interpreter}, nil
}

// send applies event and reports whether the status changed.
func (m *statusMachine) send(event string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := m.interpreter.State().Value
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	return m.interpreter.State().Value != before
}

func (m *statusMachine) current() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status(m.interpreter.State().Value)
}
