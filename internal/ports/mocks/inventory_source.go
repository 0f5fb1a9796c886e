package mocks

import (
	"context"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockInventorySource struct {
	mock.Mock
}

type MockInventorySource_Expecter struct {
	mock *mock.Mock
}

func (_m *MockInventorySource) EXPECT() *MockInventorySource_Expecter {
	return &MockInventorySource_Expecter{mock: &_m.Mock}
}

func (_m *MockInventorySource) Load(ctx context.Context) (domain.Inventory, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Load")
	}

	var r0 domain.Inventory
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (domain.Inventory, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) domain.Inventory); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(domain.Inventory)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

type MockInventorySource_Load_Call struct {
	*mock.Call
}

func (_e *MockInventorySource_Expecter) Load(ctx interface{}) *MockInventorySource_Load_Call {
	return &MockInventorySource_Load_Call{Call: _e.mock.On("Load", ctx)}
}

func (_c *MockInventorySource_Load_Call) Return(_a0 domain.Inventory, _a1 error) *MockInventorySource_Load_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func NewMockInventorySource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockInventorySource {
	m := &MockInventorySource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
