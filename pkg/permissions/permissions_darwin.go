//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework ApplicationServices -framework CoreGraphics
#include <stdlib.h>
#import <Cocoa/Cocoa.h>
#import <ApplicationServices/ApplicationServices.h>
#import <CoreGraphics/CoreGraphics.h>

static int evidenceAccessibilityTrusted() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

static int evidenceScreenCaptureAllowed() {
    if (@available(macOS 11.0, *)) {
        return CGPreflightScreenCaptureAccess() ? 1 : 0;
    }
    return 1;
}

static void evidenceOpenPrivacyPane(const char *anchor) {
    NSString *url = [NSString stringWithFormat:@"x-apple.systempreferences:com.apple.preference.security?%s", anchor];
    [[NSWorkspace sharedWorkspace] openURL:[NSURL URLWithString:url]];
}
*/
import "C"

import "unsafe"

func check() Status {
	return Status{
		Accessibility:   C.evidenceAccessibilityTrusted() == 1,
		ScreenRecording: C.evidenceScreenCaptureAllowed() == 1,
	}
}

func openPane(anchor string) {
	cs := C.CString(anchor)
	defer C.free(unsafe.Pointer(cs))
	C.evidenceOpenPrivacyPane(cs)
}

// OpenAccessibilitySettings 打开辅助功能设置页面
func OpenAccessibilitySettings() {
	openPane("Privacy_Accessibility")
}

// OpenScreenRecordingSettings 打开屏幕录制设置页面
func OpenScreenRecordingSettings() {
	openPane("Privacy_ScreenCapture")
}
