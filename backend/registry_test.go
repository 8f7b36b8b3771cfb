package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/pixelcopy/gpucore"
)

type fakeBackend struct {
	name    string
	initErr error
	inited  bool
	closed  bool
}

func (b *fakeBackend) Name() string { return b.name }
func (b *fakeBackend) Init() error {
	if b.initErr != nil {
		return b.initErr
	}
	b.inited = true
	return nil
}
func (b *fakeBackend) Device() gpucore.Device { return nil }
func (b *fakeBackend) Close()                 { b.closed = true }

// register installs a fake backend for the duration of the test.
func register(t *testing.T, name string, initErr error) {
	t.Helper()
	Register(name, func() Backend { return &fakeBackend{name: name, initErr: initErr} })
	t.Cleanup(func() { Unregister(name) })
}

func TestRegistryRegisterAndGet(t *testing.T) {
	register(t, "test-a", nil)

	if !IsRegistered("test-a") {
		t.Error("test-a should be registered")
	}
	b := Get("test-a")
	if b == nil {
		t.Fatal("Get(test-a) returned nil")
	}
	if b.Name() != "test-a" {
		t.Errorf("Get(test-a).Name() = %q, want %q", b.Name(), "test-a")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if b := Get("nonexistent"); b != nil {
		t.Error("Get(nonexistent) should return nil")
	}
	if IsRegistered("nonexistent") {
		t.Error("nonexistent should not be registered")
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-backend", func() Backend { return &fakeBackend{name: "test-backend"} })
	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}
	Unregister("test-backend")
	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestRegistryAvailableOrder(t *testing.T) {
	register(t, "zz-extra", nil)
	register(t, BackendSoftware, nil)
	register(t, BackendWGPU, nil)

	got := Available()
	wi := slices.Index(got, BackendWGPU)
	si := slices.Index(got, BackendSoftware)
	zi := slices.Index(got, "zz-extra")
	if wi < 0 || si < 0 || zi < 0 {
		t.Fatalf("Available() = %v, missing entries", got)
	}
	if !(wi < si && si < zi) {
		t.Errorf("Available() = %v, want wgpu before software before extras", got)
	}
}

func TestRegistryDefaultPrefersPriority(t *testing.T) {
	register(t, BackendSoftware, nil)
	register(t, BackendWGPU, nil)

	if b := Default(); b == nil || b.Name() != BackendWGPU {
		t.Errorf("Default() = %v, want wgpu", b)
	}
	if b := MustDefault(); b == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryInitDefaultSkipsFailingBackend(t *testing.T) {
	register(t, BackendWGPU, errors.New("no adapter"))
	register(t, BackendSoftware, nil)

	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	defer b.Close()
	if b.Name() != BackendSoftware {
		t.Errorf("InitDefault() = %q, want software", b.Name())
	}
	if !b.(*fakeBackend).inited {
		t.Error("InitDefault() returned an uninitialized backend")
	}
}

func TestRegistryInitDefaultAllFail(t *testing.T) {
	for _, name := range Available() {
		factory := Get(name)
		Unregister(name)
		t.Cleanup(func() { Register(name, func() Backend { return factory }) })
	}
	register(t, BackendWGPU, errors.New("no adapter"))

	_, err := InitDefault()
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("InitDefault() error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestOpen(t *testing.T) {
	register(t, "test-open", nil)

	b, err := Open("test-open")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !b.(*fakeBackend).inited {
		t.Error("Open() should initialize the backend")
	}

	if _, err := Open("nonexistent"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}

	boom := errors.New("boom")
	register(t, "test-broken", boom)
	if _, err := Open("test-broken"); !errors.Is(err, boom) {
		t.Errorf("Open(test-broken) error = %v, want wrapped boom", err)
	}
}
