// ABOUTME: Miniaudio context and device discovery
// ABOUTME: Shared by the malgo capture and playback backends and -list-devices
package device

import (
	"fmt"
	"log"
	"strings"

	"github.com/gen2brain/malgo"
)

// Info describes one audio endpoint
type Info struct {
	Name    string
	Default bool
}

// Inventory lists the endpoints available to miniaudio
type Inventory struct {
	Backend  string
	Capture  []Info
	Playback []Info
}

// InitContext creates a miniaudio context that forwards backend messages to the log
func InitContext() (*malgo.AllocatedContext, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("miniaudio: %s", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	return ctx, nil
}

// FreeContext releases a context created by InitContext
func FreeContext(ctx *malgo.AllocatedContext) {
	if ctx == nil {
		return
	}
	if err := ctx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	ctx.Free()
}

// Count returns the number of endpoints of the given kind
func Count(ctx *malgo.AllocatedContext, kind malgo.DeviceType) (int, error) {
	infos, err := ctx.Devices(kind)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	return len(infos), nil
}

// List enumerates capture and playback endpoints
func List() (Inventory, error) {
	ctx, err := InitContext()
	if err != nil {
		return Inventory{}, err
	}
	defer FreeContext(ctx)

	inv := Inventory{Backend: "miniaudio"}
	if inv.Capture, err = infos(ctx, malgo.Capture); err != nil {
		return Inventory{}, err
	}
	if inv.Playback, err = infos(ctx, malgo.Playback); err != nil {
		return Inventory{}, err
	}
	return inv, nil
}

func infos(ctx *malgo.AllocatedContext, kind malgo.DeviceType) ([]Info, error) {
	devices, err := ctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	out := make([]Info, 0, len(devices))
	for _, d := range devices {
		out = append(out, Info{
			Name:    d.Name(),
			Default: d.IsDefault != 0,
		})
	}
	return out, nil
}

// String renders the inventory for the terminal
func (inv Inventory) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audio devices (%s)\n", inv.Backend)
	writeSection(&b, "Input", inv.Capture)
	writeSection(&b, "Output", inv.Playback)
	return b.String()
}

func writeSection(b *strings.Builder, title string, devices []Info) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(devices) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for i, d := range devices {
		marker := " "
		if d.Default {
			marker = "*"
		}
		fmt.Fprintf(b, " %s%d: %s\n", marker, i, d.Name)
	}
}
