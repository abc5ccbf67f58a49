//go:build darwin && cgo

package gpu

/*
#cgo LDFLAGS: -framework IOKit -framework CoreFoundation
#include <stdlib.h>
#include <string.h>
#include <IOKit/IOKitLib.h>
#include <CoreFoundation/CoreFoundation.h>

// IOServiceGetMatchingServices consumes the matching dictionary.
static kern_return_t gpuinfoMatchingServices(const char *className, io_iterator_t *iter) {
    return IOServiceGetMatchingServices(MACH_PORT_NULL, IOServiceMatching(className), iter);
}

// gpuinfoEntryProperties serialises an entry's property dictionary as a binary
// property list. On success *out is malloc'd and owned by the caller.
static int gpuinfoEntryProperties(io_registry_entry_t entry, void **out, long *outLen) {
    CFMutableDictionaryRef props = NULL;
    if (IORegistryEntryCreateCFProperties(entry, &props, kCFAllocatorDefault, 0) != KERN_SUCCESS || props == NULL) {
        return -1;
    }

    CFDataRef data = CFPropertyListCreateData(kCFAllocatorDefault, props, kCFPropertyListBinaryFormat_v1_0, 0, NULL);
    CFRelease(props);
    if (data == NULL) {
        return -2;
    }

    CFIndex n = CFDataGetLength(data);
    void *buf = malloc(n > 0 ? n : 1);
    if (buf == NULL) {
        CFRelease(data);
        return -3;
    }
    memcpy(buf, CFDataGetBytePtr(data), n);
    CFRelease(data);

    *out = buf;
    *outLen = (long)n;
    return 0;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"howett.net/plist"
)

// ioRegistry enumerates services in the IOKit registry.
type ioRegistry struct{}

func systemRegistry() Registry {
	return ioRegistry{}
}

func (ioRegistry) MatchingServices(class string) (Iterator, error) {
	cclass := C.CString(class)
	defer C.free(unsafe.Pointer(cclass))

	var iter C.io_iterator_t
	if kr := C.gpuinfoMatchingServices(cclass, &iter); kr != C.KERN_SUCCESS {
		return nil, fmt.Errorf("%w: IOServiceGetMatchingServices(%s) returned %d", ErrRegistryUnavailable, class, int(kr))
	}
	return &ioIterator{handle: iter}, nil
}

// ioIterator owns an io_iterator_t reference.
type ioIterator struct {
	handle C.io_iterator_t
}

func (it *ioIterator) Next() (Entry, bool) {
	if it.handle == 0 {
		return nil, false
	}
	h := C.IOIteratorNext(it.handle)
	if h == 0 {
		return nil, false
	}
	return &ioEntry{handle: h}, true
}

func (it *ioIterator) Release() {
	if it.handle == 0 {
		return
	}
	C.IOObjectRelease(C.io_object_t(it.handle))
	it.handle = 0
}

// ioEntry owns an io_registry_entry_t reference.
type ioEntry struct {
	handle C.io_object_t
}

func (e *ioEntry) Properties() (map[string]any, error) {
	if e.handle == 0 {
		return nil, fmt.Errorf("registry entry already released")
	}

	var buf unsafe.Pointer
	var n C.long
	if rc := C.gpuinfoEntryProperties(C.io_registry_entry_t(e.handle), &buf, &n); rc != 0 {
		return nil, fmt.Errorf("reading registry entry properties: code %d", int(rc))
	}
	defer C.free(buf)

	var props map[string]any
	if _, err := plist.Unmarshal(C.GoBytes(buf, C.int(n)), &props); err != nil {
		return nil, fmt.Errorf("decoding registry entry properties: %w", err)
	}
	return props, nil
}

func (e *ioEntry) Release() {
	if e.handle == 0 {
		return
	}
	C.IOObjectRelease(e.handle)
	e.handle = 0
}
