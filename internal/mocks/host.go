package mocks

import (
	"time"

	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/config"
	"github.com/brettbedarf/hostfs/flags"
	"github.com/stretchr/testify/mock"
)

// MockHost implements hostfs.Host for testing across packages
type MockHost struct {
	mock.Mock
}

func (m *MockHost) Stat(path string) (*hostfs.Stat, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostfs.Stat), args.Error(1)
}

func (m *MockHost) Mkdir(path string, recursive bool) error {
	return m.Called(path, recursive).Error(0)
}

func (m *MockHost) Rmdir(path string, recursive bool) error {
	return m.Called(path, recursive).Error(0)
}

func (m *MockHost) Unlink(path string) error {
	return m.Called(path).Error(0)
}

func (m *MockHost) Rename(oldPath, newPath string) error {
	return m.Called(oldPath, newPath).Error(0)
}

func (m *MockHost) Readdir(path string) ([]string, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockHost) WriteFile(path string, data []byte) error {
	return m.Called(path, data).Error(0)
}

func (m *MockHost) Truncate(path string, length int64) error {
	return m.Called(path, length).Error(0)
}

func (m *MockHost) Open(path string, mode flags.OpenMode) (int, error) {
	args := m.Called(path, mode)
	return args.Int(0), args.Error(1)
}

func (m *MockHost) Close(fd int) error {
	return m.Called(fd).Error(0)
}

func (m *MockHost) Read(fd int, p []byte, position int64) (int, error) {
	args := m.Called(fd, p, position)

	// Handle function return types so tests can fill p
	if fn, ok := args.Get(0).(func(int, []byte, int64) int); ok {
		return fn(fd, p, position), args.Error(1)
	}
	return args.Int(0), args.Error(1)
}

func (m *MockHost) Write(fd int, p []byte, position int64) (int, error) {
	args := m.Called(fd, p, position)
	return args.Int(0), args.Error(1)
}

func (m *MockHost) Symlink(oldPath, newPath string) error {
	return m.Called(oldPath, newPath).Error(0)
}

func (m *MockHost) Readlink(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

var _ hostfs.Host = (*MockHost)(nil)

// MockUtimeHost is a MockHost that can also change timestamps
type MockUtimeHost struct {
	MockHost
}

func (m *MockUtimeHost) Utime(path string, atime, mtime time.Time) error {
	return m.Called(path, atime, mtime).Error(0)
}

var _ hostfs.Utimer = (*MockUtimeHost)(nil)

// MockProvider builds hosts for registry tests
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) NewHost(cfg *config.Config) (hostfs.Host, error) {
	args := m.Called(cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(hostfs.Host), args.Error(1)
}
