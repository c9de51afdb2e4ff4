package apifakes

import (
	"context"
	"sync"

	"github.com/fiscalflow/client-go/authclient"
)

var _ authclient.API = (*FakeAPI)(nil)

// FakeAPI is a scripted authclient.API with call counters.
type FakeAPI struct {
	LoginCreds   *authclient.Credentials
	LoginErr     error
	RefreshCreds *authclient.Credentials
	RefreshErr   error
	User         *authclient.User
	UserErr      error

	lock         sync.Mutex
	loginCalls   int
	refreshCalls int
	userCalls    int
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{}
}

func (fa *FakeAPI) Login(_ context.Context, _, _ string) (*authclient.Credentials, error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.loginCalls++
	if fa.LoginErr != nil {
		return nil, fa.LoginErr
	}
	return fa.LoginCreds, nil
}

func (fa *FakeAPI) Refresh(_ context.Context, _ string) (*authclient.Credentials, error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.refreshCalls++
	if fa.RefreshErr != nil {
		return nil, fa.RefreshErr
	}
	return fa.RefreshCreds, nil
}

func (fa *FakeAPI) CurrentUser(_ context.Context) (*authclient.User, error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.userCalls++
	if fa.UserErr != nil {
		return nil, fa.UserErr
	}
	return fa.User, nil
}

func (fa *FakeAPI) LoginCalls() int {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	return fa.loginCalls
}

func (fa *FakeAPI) RefreshCalls() int {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	return fa.refreshCalls
}

func (fa *FakeAPI) CurrentUserCalls() int {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	return fa.userCalls
}

var _ authclient.TokenBinder = (*FakeBinder)(nil)

// FakeBinder records every token bound to the outgoing-request
// attachment, so tests can assert staging and unstaging order.
type FakeBinder struct {
	lock    sync.Mutex
	token   string
	history []string
}

func NewFakeBinder() *FakeBinder {
	return &FakeBinder{}
}

func (fb *FakeBinder) SetAuthToken(token string) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	fb.token = token
	fb.history = append(fb.history, token)
}

func (fb *FakeBinder) Token() string {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	return fb.token
}

func (fb *FakeBinder) History() []string {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	return append([]string(nil), fb.history...)
}
