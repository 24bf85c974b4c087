package mocks

import (
	"github.com/stretchr/testify/mock"
)

type Pusher struct {
	mock.Mock
}

func (m *Pusher) Push(key string, payload interface{}) {
	m.Called(key, payload)
}
