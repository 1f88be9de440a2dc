// Package webrtc receives touch control messages over WebRTC data channels.
package webrtc

import "sync/atomic"

// debugData controls whether every data channel message is logged.
var debugData atomic.Bool

// SetDebugLogging enables/disables verbose data channel logs.
func SetDebugLogging(enabled bool) {
	debugData.Store(enabled)
}

// debugDataEnabled reports whether data channel debug logs are enabled.
func debugDataEnabled() bool {
	return debugData.Load()
}
