// Package delivery hands converted artifacts to the host platform. A Host
// stages bytes behind a transient handle, saves them under a file name and
// releases the handle afterwards.
package delivery

import (
	"fmt"
	"log"
)

// Handle is a transient reference to staged artifact bytes.
type Handle string

// Host is the save capability supplied by the platform.
type Host interface {
	// Stage keeps data reachable through the returned handle until Release.
	Stage(data []byte) (Handle, error)
	// Save writes the staged bytes out under filename and returns where they
	// ended up.
	Save(h Handle, filename string) (string, error)
	// Release drops the handle. Releasing twice is not an error.
	Release(h Handle) error
}

// Deliver stages data, saves it once and always releases the handle, even
// when Save fails or panics.
func Deliver(host Host, data []byte, filename string) (string, error) {
	h, err := host.Stage(data)
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", filename, err)
	}
	defer func() {
		if err := host.Release(h); err != nil {
			log.Printf("[delivery] release %s: %v", h, err)
		}
	}()

	path, err := host.Save(h, filename)
	if err != nil {
		return "", fmt.Errorf("saving %s: %w", filename, err)
	}
	return path, nil
}
