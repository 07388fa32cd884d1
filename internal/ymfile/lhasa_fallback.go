//go:build !linux && !headless

package ymfile

import "fmt"

func DecompressLHAFile(path string) ([]byte, error) {
	return nil, fmt.Errorf("LHA decompression requires Linux with liblhasa installed")
}

func DecompressLHAData(data []byte) ([]byte, error) {
	return nil, fmt.Errorf("LHA decompression requires Linux with liblhasa installed")
}
