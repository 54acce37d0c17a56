package mocks

import (
	"time"

	"dropbox-comments/feature/scheduler"

	"github.com/stretchr/testify/mock"
)

// Controller is a mock implementation of monitor.Controller
type Controller struct {
	mock.Mock
}

func (m *Controller) TriggerNow() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Controller) SetInterval(minutes int) error {
	args := m.Called(minutes)
	return args.Error(0)
}

func (m *Controller) Interval() int {
	args := m.Called()
	return args.Int(0)
}

func (m *Controller) ReloadCredentials() {
	m.Called()
}

func (m *Controller) Status() scheduler.Status {
	args := m.Called()
	return args.Get(0).(scheduler.Status)
}

func (m *Controller) LastSync() (time.Time, bool) {
	args := m.Called()
	return args.Get(0).(time.Time), args.Bool(1)
}

func (m *Controller) Results() <-chan scheduler.SyncResult {
	args := m.Called()
	return args.Get(0).(<-chan scheduler.SyncResult)
}
