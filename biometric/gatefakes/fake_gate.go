package gatefakes

import (
	"context"
	"sync"

	"github.com/fiscalflow/client-go/biometric"
)

var _ biometric.Gate = (*FakeGate)(nil)

// FakeGate is a scripted biometric.Gate for tests.
type FakeGate struct {
	Hardware bool
	Enrolled bool
	Result   biometric.Result
	Err      error

	lock              sync.Mutex
	authenticateCalls int
}

func NewFakeGate() *FakeGate {
	return &FakeGate{}
}

func (fg *FakeGate) HasHardware(context.Context) (bool, error) {
	return fg.Hardware, nil
}

func (fg *FakeGate) IsEnrolled(context.Context) (bool, error) {
	return fg.Enrolled, nil
}

func (fg *FakeGate) Authenticate(context.Context, string) (biometric.Result, error) {
	fg.lock.Lock()
	defer fg.lock.Unlock()
	fg.authenticateCalls++
	if fg.Err != nil {
		return biometric.Result{}, fg.Err
	}
	return fg.Result, nil
}

func (fg *FakeGate) AuthenticateCalls() int {
	fg.lock.Lock()
	defer fg.lock.Unlock()
	return fg.authenticateCalls
}
