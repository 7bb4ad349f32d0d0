package utils

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// MachineID returns a stable identifier for the current machine, used to
// bind the persisted session token to the device it was issued on. Falls
// back to the hostname when no hardware identifier is readable.
func MachineID() string {
	var id string
	switch runtime.GOOS {
	case "linux":
		id = linuxMachineID()
	case "darwin":
		id = darwinMachineID()
	case "windows":
		id = windowsMachineID()
	}
	if id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil {
		return "fitplan-unknown-host"
	}
	return host
}

func linuxMachineID() string {
	for _, path := range []string{"/etc/machine-id", "/sys/class/dmi/id/product_uuid"} {
		if b, err := os.ReadFile(path); err == nil {
			if id := strings.TrimSpace(string(b)); id != "" {
				return id
			}
		}
	}
	return ""
}

func darwinMachineID() string {
	out, err := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "IOPlatformUUID") {
			parts := strings.Split(line, "\"")
			if len(parts) >= 4 {
				return parts[3]
			}
		}
	}
	return ""
}

func windowsMachineID() string {
	out, err := exec.Command("wmic", "csproduct", "get", "UUID").Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		s := strings.TrimSpace(line)
		if s != "" && !strings.EqualFold(s, "UUID") {
			return s
		}
	}
	return ""
}
