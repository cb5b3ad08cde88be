package vulkan_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/kajomano/Kea/vulkan"
	"github.com/kajomano/Kea/vulkan/vulkantest"
)

func newTestContext(t *testing.T, p *vulkantest.Platform) *vulkan.Context {
	t.Helper()

	cfg := vulkan.DefaultConfig()
	cfg.EnableDiagnostics = false

	ctx, err := vulkan.NewContext(p, cfg)
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	t.Cleanup(ctx.Close)
	return ctx
}

func TestFindMemoryType(t *testing.T) {
	props := &vulkan.MemoryProperties{
		MemoryTypes: []vulkan.MemoryType{
			{PropertyFlags: vulkan.MemoryDeviceLocal},
			{PropertyFlags: vulkan.MemoryHostVisible},
			{PropertyFlags: vulkan.MemoryHostVisible | vulkan.MemoryHostCoherent | vulkan.MemoryHostCached},
			{PropertyFlags: vulkan.MemoryHostVisible | vulkan.MemoryHostCoherent},
		},
	}
	required := vulkan.MemoryHostVisible | vulkan.MemoryHostCoherent

	got, err := vulkan.FindMemoryType(props, ^uint32(0), required)
	if err != nil {
		t.Fatalf("FindMemoryType: unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("FindMemoryType: expected 2, got %d", got)
	}

	got, err = vulkan.FindMemoryType(props, 1<<3, required)
	if err != nil {
		t.Fatalf("FindMemoryType with filter: unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("FindMemoryType with filter: expected 3, got %d", got)
	}
}

func TestFindMemoryTypeBoundary(t *testing.T) {
	for n := 0; n <= 4; n++ {
		props := &vulkan.MemoryProperties{}
		for i := 0; i < n; i++ {
			props.MemoryTypes = append(props.MemoryTypes, vulkan.MemoryType{PropertyFlags: vulkan.MemoryDeviceLocal})
		}

		got, err := vulkan.FindMemoryType(props, ^uint32(0), vulkan.MemoryHostVisible|vulkan.MemoryHostCoherent)
		if !errors.Is(err, vulkan.ErrNoMemoryType) {
			t.Errorf("%d types: expected ErrNoMemoryType, got %v", n, err)
		}
		if got == n {
			t.Errorf("%d types: returned the out-of-range index %d", n, got)
		}
	}
}

func TestHostBufferShape(t *testing.T) {
	p := vulkantest.New()
	ctx := newTestContext(t, p)

	buf, err := vulkan.NewHostBuffer(ctx, 10)
	if err != nil {
		t.Fatalf("NewHostBuffer: unexpected error: %v", err)
	}

	if len(p.BufferInfos) != 2 {
		t.Fatalf("buffer creations: expected 2, got %d", len(p.BufferInfos))
	}
	for i, info := range p.BufferInfos {
		if info.Size != 40 {
			t.Errorf("buffer %d size: expected 40, got %d", i, info.Size)
		}
		if info.Usage != vulkan.BufferUsageStorageBuffer {
			t.Errorf("buffer %d usage: expected storage, got %v", i, info.Usage)
		}
		if info.SharingMode != vulkan.SharingModeExclusive {
			t.Errorf("buffer %d sharing: expected exclusive, got %v", i, info.SharingMode)
		}
		if diff := cmp.Diff([]int{ctx.QueueFamilyIndex()}, info.QueueFamilyIndices); diff != "" {
			t.Errorf("buffer %d queue families (-want +got):\n%s", i, diff)
		}
	}

	if len(p.AllocateInfos) != 2 {
		t.Fatalf("allocations: expected 2, got %d", len(p.AllocateInfos))
	}
	for i, info := range p.AllocateInfos {
		if info.MemoryTypeIndex != 1 {
			t.Errorf("allocation %d memory type: expected 1, got %d", i, info.MemoryTypeIndex)
		}
		// The fake rounds requirements up to a 256 byte alignment.
		if info.AllocationSize != 256 {
			t.Errorf("allocation %d size: expected 256, got %d", i, info.AllocationSize)
		}
	}

	wantBindings := []vulkantest.Binding{
		{Buffer: buf.Input(), Memory: buf.InputMemory(), Offset: 0},
		{Buffer: buf.Output(), Memory: buf.OutputMemory(), Offset: 0},
	}
	if diff := cmp.Diff(wantBindings, p.Bindings); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	if buf.Size() != 40 {
		t.Errorf("Size: expected 40, got %d", buf.Size())
	}
	info := buf.MemoryInfo()
	if info.TypeIndex != 1 || info.HeapIndex != 1 || info.HeapSize != 16<<30 {
		t.Errorf("MemoryInfo: unexpected %+v", info)
	}
}

func TestHostBufferNoHostMemory(t *testing.T) {
	p := vulkantest.New()
	p.Devices[0].Memory.MemoryTypes = []vulkan.MemoryType{
		{PropertyFlags: vulkan.MemoryDeviceLocal},
		{PropertyFlags: vulkan.MemoryHostVisible},
	}
	ctx := newTestContext(t, p)
	before := p.Live()

	_, err := vulkan.NewHostBuffer(ctx, 10)
	if !errors.Is(err, vulkan.ErrNoMemoryType) {
		t.Fatalf("NewHostBuffer: expected ErrNoMemoryType, got %v", err)
	}
	if p.Live() != before {
		t.Errorf("live objects: expected %d after failure, got %d", before, p.Live())
	}
	if len(p.AllocateInfos) != 0 {
		t.Errorf("allocations: expected none, got %d", len(p.AllocateInfos))
	}
}

func TestHostBufferAllocationFailureReleasesPartialState(t *testing.T) {
	p := vulkantest.New()
	p.Failures = map[string]vulkantest.Failure{vulkantest.OpAllocateMemory: {Call: 2}}
	ctx := newTestContext(t, p)
	before := p.Live()

	_, err := vulkan.NewHostBuffer(ctx, 4)
	var stepErr *vulkan.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("NewHostBuffer: expected *StepError, got %v", err)
	}
	if stepErr.Step != vulkan.StepMemory || stepErr.Object != "output memory" {
		t.Errorf("StepError: unexpected step %q object %q", stepErr.Step, stepErr.Object)
	}
	if p.Live() != before {
		t.Errorf("live objects: expected %d after failure, got %d", before, p.Live())
	}
}

func TestHostBufferRejectsNonPositiveCount(t *testing.T) {
	ctx := newTestContext(t, vulkantest.New())

	if _, err := vulkan.NewHostBuffer(ctx, 0); err == nil {
		t.Error("NewHostBuffer(0): expected error")
	}
}

func TestHostBufferCloseTwice(t *testing.T) {
	p := vulkantest.New()
	ctx := newTestContext(t, p)

	buf, err := vulkan.NewHostBuffer(ctx, 10)
	if err != nil {
		t.Fatalf("NewHostBuffer: unexpected error: %v", err)
	}
	buf.Close()
	buf.Close()

	want := []string{"destroy memory 6", "destroy memory 5", "destroy buffer 4", "destroy buffer 3"}
	if diff := cmp.Diff(want, p.Trace[len(p.Trace)-4:]); diff != "" {
		t.Errorf("release order mismatch (-want +got):\n%s", diff)
	}
}
