package mediamtx

import (
	"os"
	"path/filepath"
)

// ConfigFileName is the configuration file mediamtx reads when given one.
const ConfigFileName = "mediamtx.yml"

// Command builds the relay launch command. When a mediamtx.yml sits next
// to the binary it is passed explicitly so the relay does not depend on
// the working directory; otherwise mediamtx runs with its built-in
// defaults, which already serve RTSP on :8554.
func Command(binary string) []string {
	cfg := filepath.Join(filepath.Dir(binary), ConfigFileName)
	if info, err := os.Stat(cfg); err == nil && !info.IsDir() {
		return []string{binary, cfg}
	}
	return []string{binary}
}
