// Package mocks provides mock implementations for testing the document pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockStore := mocks.NewMockObjectStore(ctrl)
//	mockStore.EXPECT().List(gomock.Any(), gomock.Any()).Return(keys, nil)
package mocks

// Generate mock for JobInvoker interface from internal/core package.
// This creates MockJobInvoker with: Invoke
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_invoker_mock.go github.com/autobmg/processdocs/internal/core JobInvoker

// Generate mock for ObjectStore interface from internal/core package.
// This creates MockObjectStore with: List, Download, Upload, PresignGet, EnsureLifecycle
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=object_store_mock.go github.com/autobmg/processdocs/internal/core ObjectStore

// Generate mock for BatchStateRepo interface from internal/core package.
// This creates MockBatchStateRepo with: Save, Get
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=batch_state_repo_mock.go github.com/autobmg/processdocs/internal/core BatchStateRepo

// Generate mock for the delivery notification Sink interface.
// This creates MockSink with: SendDelivery
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=notify_sink_mock.go github.com/autobmg/processdocs/internal/observability/notify Sink
