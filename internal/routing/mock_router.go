package routing

import (
	"github.com/stretchr/testify/mock"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/message"
)

func NewRouterMock() *RouterMock {
	return &RouterMock{}
}

type RouterMock struct {
	mock.Mock
}

func (r *RouterMock) ResolveDelegate(msg message.Message) (Checker, error) {
	args := r.MethodCalled("ResolveDelegate", msg)
	checker, _ := args.Get(0).(Checker)
	return checker, args.Error(1)
}

func (r *RouterMock) WatcherParameters(msg message.Message) (Params, error) {
	args := r.MethodCalled("WatcherParameters", msg)
	return args.Get(0).(Params), args.Error(1)
}

func (r *RouterMock) KnownWatcher(identity crypto.WatcherKey) bool {
	args := r.MethodCalled("KnownWatcher", identity)
	return args.Bool(0)
}
