package runner

import "runtime"

// captureFormat selects the ffmpeg input device for the host platform.
func captureFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "gdigrab"
	default:
		return "x11grab"
	}
}

// captureInput names the whole-screen source for the chosen device.
func captureInput() string {
	switch runtime.GOOS {
	case "darwin":
		return "1:none"
	case "windows":
		return "desktop"
	default:
		return ":0.0"
	}
}
