package media

import (
	"context"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"github.com/godbus/dbus/v5"
)

const (
	busPrefix     = "org.mpris.MediaPlayer2."
	objectPath    = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	rootIface     = "org.mpris.MediaPlayer2"
	playerIface   = "org.mpris.MediaPlayer2.Player"
	propertiesGet = "org.freedesktop.DBus.Properties.Get"
	listNames     = "org.freedesktop.DBus.ListNames"
)

// bus is the part of a D-Bus session connection the sampler needs.
type bus interface {
	ListNames(ctx context.Context) ([]string, error)
	Property(ctx context.Context, dest, iface, prop string) (dbus.Variant, error)
	Close() error
}

type sessionBus struct {
	conn *dbus.Conn
}

func dialSession() (bus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, errors.New().Wrap(ErrBusConnect, err)
	}
	return &sessionBus{conn: conn}, nil
}

func (b *sessionBus) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := b.conn.BusObject().CallWithContext(ctx, listNames, 0).Store(&names); err != nil {
		return nil, errors.New().Wrap(ErrListPlayers, err)
	}
	return names, nil
}

func (b *sessionBus) Property(ctx context.Context, dest, iface, prop string) (dbus.Variant, error) {
	var v dbus.Variant
	err := b.conn.Object(dest, objectPath).CallWithContext(ctx, propertiesGet, 0, iface, prop).Store(&v)
	if err != nil {
		return dbus.Variant{}, errors.New().Wrap(ErrPlayerQuery, err).WithMessage(dest + " " + prop)
	}
	return v, nil
}

func (b *sessionBus) Close() error {
	return b.conn.Close()
}
