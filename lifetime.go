package simpledi

import (
	"encoding/json"
	"fmt"

	"github.com/junioryono/simpledi/internal/registry"
)

// Lifetime specifies how instances of a registration are cached.
type Lifetime int

const (
	// Transient specifies that a new instance is built on every resolution.
	Transient Lifetime = iota

	// Singleton specifies that one instance is built for the registration
	// and returned on every later resolution.
	// Registering the same type again discards the cached instance.
	Singleton
)

// String returns the string representation of the Lifetime.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Singleton:
		return "Singleton"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// IsValid checks if the lifetime is valid.
func (l Lifetime) IsValid() bool {
	return l >= Transient && l <= Singleton
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, LifetimeError{Value: int(l)}
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Transient", "transient":
		*l = Transient
	case "Singleton", "singleton":
		*l = Singleton
	default:
		return LifetimeError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lifetime) MarshalJSON() ([]byte, error) {
	text, err := l.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lifetime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return l.UnmarshalText([]byte(s))
}

func (l Lifetime) toRegistry() registry.ServiceLifetime {
	if l == Singleton {
		return registry.Singleton
	}
	return registry.Transient
}

func lifetimeOf(l registry.ServiceLifetime) Lifetime {
	if l == registry.Singleton {
		return Singleton
	}
	return Transient
}
