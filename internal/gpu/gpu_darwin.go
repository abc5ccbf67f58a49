//go:build darwin && cgo

package gpu

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Metal -framework Foundation
#include <stdlib.h>
#include <string.h>
#import <Metal/Metal.h>

// The returned device is retained for the life of the process.
static void *gpuinfoDefaultDevice(void) {
    return (void *)MTLCreateSystemDefaultDevice();
}

static char *gpuinfoDeviceName(void *ref) {
    @autoreleasepool {
        id<MTLDevice> device = (id<MTLDevice>)ref;
        const char *name = [[device name] UTF8String];
        return name != NULL ? strdup(name) : NULL;
    }
}

static int gpuinfoHasUnifiedMemory(void *ref) {
    id<MTLDevice> device = (id<MTLDevice>)ref;
    if (@available(macOS 10.15, *)) {
        return [device hasUnifiedMemory] ? 1 : 0;
    }
    return 0;
}

static int gpuinfoSupportsFamily(void *ref, long family) {
    id<MTLDevice> device = (id<MTLDevice>)ref;
    if (@available(macOS 10.15, *)) {
        return [device supportsFamily:(MTLGPUFamily)family] ? 1 : 0;
    }
    return 0;
}
*/
import "C"
import "unsafe"

// metalDevice wraps the MTLDevice returned by MTLCreateSystemDefaultDevice.
type metalDevice struct {
	ref  unsafe.Pointer
	name string
}

// SystemDefaultDevice returns the Metal default device, or false on headless
// or unsupported hardware.
func SystemDefaultDevice() (Device, bool) {
	ref := C.gpuinfoDefaultDevice()
	if ref == nil {
		return nil, false
	}

	name := ""
	if cname := C.gpuinfoDeviceName(ref); cname != nil {
		name = C.GoString(cname)
		C.free(unsafe.Pointer(cname))
	}

	return &metalDevice{ref: ref, name: name}, true
}

func (d *metalDevice) Name() string {
	return d.name
}

func (d *metalDevice) HasUnifiedMemory() bool {
	return C.gpuinfoHasUnifiedMemory(d.ref) != 0
}

func (d *metalDevice) SupportsFamily(f Family) bool {
	return C.gpuinfoSupportsFamily(d.ref, C.long(f)) != 0
}
