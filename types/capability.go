package types

import "fmt"

// Capability is the kind of request a provider may serve.
type Capability string

const (
	CapabilityLanguage  Capability = "language"
	CapabilityEmbedding Capability = "embedding"
	CapabilityImage     Capability = "image"
	CapabilitySpeech    Capability = "speech"
	CapabilityVideo     Capability = "video"
)

// Capabilities lists every known capability in a stable order.
func Capabilities() []Capability {
	return []Capability{
		CapabilityLanguage,
		CapabilityEmbedding,
		CapabilityImage,
		CapabilitySpeech,
		CapabilityVideo,
	}
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	switch c {
	case CapabilityLanguage, CapabilityEmbedding, CapabilityImage, CapabilitySpeech, CapabilityVideo:
		return true
	}
	return false
}

// ParseCapability converts a string into a Capability.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown capability %q", s)
	}
	return c, nil
}
