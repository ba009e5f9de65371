package routing

import (
	"github.com/stretchr/testify/mock"

	"github.com/persimmonlabs/optimist/internal/message"
)

func NewCheckerMock() *CheckerMock {
	return &CheckerMock{}
}

type CheckerMock struct {
	mock.Mock
}

func (c *CheckerMock) Verify(subMetadata []byte, msg message.Message) error {
	args := c.MethodCalled("Verify", subMetadata, msg)
	return args.Error(0)
}
