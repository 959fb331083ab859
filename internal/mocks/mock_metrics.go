// Code generated by MockGen. DO NOT EDIT.
// Source: ../metrics/cache.go
//
// Generated by this command:
//
//	mockgen -source=../metrics/cache.go -destination=mock_metrics.go -package=mocks
//

// Package mocks is a generated GoMock package.
package mocks

import (
	reflect "reflect"
	time "time"

	gomock "go.uber.org/mock/gomock"
)

// MockMetricsStore is a mock of MetricsStore interface.
type MockMetricsStore struct {
	ctrl     *gomock.Controller
	recorder *MockMetricsStoreMockRecorder
	isgomock struct{}
}

// MockMetricsStoreMockRecorder is the mock recorder for MockMetricsStore.
type MockMetricsStoreMockRecorder struct {
	mock *MockMetricsStore
}

// NewMockMetricsStore creates a new mock instance.
func NewMockMetricsStore(ctrl *gomock.Controller) *MockMetricsStore {
	mock := &MockMetricsStore{ctrl: ctrl}
	mock.recorder = &MockMetricsStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMetricsStore) EXPECT() *MockMetricsStoreMockRecorder {
	return m.recorder
}

// CountActiveOAuthSessions mocks base method.
func (m *MockMetricsStore) CountActiveOAuthSessions() (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountActiveOAuthSessions")
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountActiveOAuthSessions indicates an expected call of CountActiveOAuthSessions.
func (mr *MockMetricsStoreMockRecorder) CountActiveOAuthSessions() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountActiveOAuthSessions", reflect.TypeOf((*MockMetricsStore)(nil).CountActiveOAuthSessions))
}

// CountActiveSignInSessions mocks base method.
func (m *MockMetricsStore) CountActiveSignInSessions() (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountActiveSignInSessions")
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountActiveSignInSessions indicates an expected call of CountActiveSignInSessions.
func (mr *MockMetricsStoreMockRecorder) CountActiveSignInSessions() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountActiveSignInSessions", reflect.TypeOf((*MockMetricsStore)(nil).CountActiveSignInSessions))
}

// CountEnrolledFaces mocks base method.
func (m *MockMetricsStore) CountEnrolledFaces() (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountEnrolledFaces")
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountEnrolledFaces indicates an expected call of CountEnrolledFaces.
func (mr *MockMetricsStoreMockRecorder) CountEnrolledFaces() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountEnrolledFaces", reflect.TypeOf((*MockMetricsStore)(nil).CountEnrolledFaces))
}

// CountPendingAuthCodes mocks base method.
func (m *MockMetricsStore) CountPendingAuthCodes(validity time.Duration) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountPendingAuthCodes", validity)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountPendingAuthCodes indicates an expected call of CountPendingAuthCodes.
func (mr *MockMetricsStoreMockRecorder) CountPendingAuthCodes(validity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountPendingAuthCodes", reflect.TypeOf((*MockMetricsStore)(nil).CountPendingAuthCodes), validity)
}
