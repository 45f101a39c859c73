//go:build darwin && cgo

package macos

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdlib.h>
#include <string.h>

// The window server lists on-screen windows front to back, so the owner of
// the first normal-layer window is the frontmost application. Unlike the
// NSWorkspace property this needs no run loop in the calling process.
static char *frontmost_window_owner(void) {
	CFArrayRef windows = CGWindowListCopyWindowInfo(
		kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
		kCGNullWindowID);
	if (windows == NULL) {
		return NULL;
	}

	char *result = NULL;
	CFIndex count = CFArrayGetCount(windows);
	for (CFIndex i = 0; i < count && result == NULL; i++) {
		CFDictionaryRef entry = (CFDictionaryRef)CFArrayGetValueAtIndex(windows, i);

		CFNumberRef layerRef = (CFNumberRef)CFDictionaryGetValue(entry, kCGWindowLayer);
		int layer = -1;
		if (layerRef == NULL || !CFNumberGetValue(layerRef, kCFNumberIntType, &layer) || layer != 0) {
			continue;
		}

		CFStringRef owner = (CFStringRef)CFDictionaryGetValue(entry, kCGWindowOwnerName);
		if (owner == NULL) {
			result = strdup("Unknown Application");
			break;
		}

		CFIndex size = CFStringGetMaximumSizeForEncoding(CFStringGetLength(owner), kCFStringEncodingUTF8) + 1;
		char *buf = malloc(size);
		if (buf == NULL) {
			break;
		}
		if (CFStringGetCString(owner, buf, size, kCFStringEncodingUTF8)) {
			result = buf;
		} else {
			free(buf);
			result = strdup("Unknown Application");
		}
	}

	CFRelease(windows);
	return result;
}
*/
import "C"

import (
	"unsafe"

	"github.com/locus/locus/pkg/window"
)

// frontmostApplicationName asks the window server for the owner of the
// frontmost on-screen window without spawning a process
func frontmostApplicationName() (string, error) {
	cname := C.frontmost_window_owner()
	if cname == nil {
		return "", window.ErrNoActiveWindow
	}
	defer C.free(unsafe.Pointer(cname))
	return C.GoString(cname), nil
}
