package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bookclub/bookclub-server/internal/config"
	"github.com/bookclub/bookclub-server/internal/domain"
	"github.com/bookclub/bookclub-server/internal/store"
	"github.com/bookclub/bookclub-server/internal/store/sqlite"
)

type scanCloser interface {
	store.Scanner
	io.Closer
}

// device is one device namespace's decoded contents.
type device struct {
	users     []domain.User
	purchases []string
	other     map[string]string
}

func openStore(opts *options) (scanCloser, error) {
	switch opts.driver {
	case config.DriverBadger:
		return store.OpenBadgerReadOnly(filepath.Join(opts.dataPath, "db"))
	case config.DriverSQLite:
		return sqlite.Open(filepath.Join(opts.dataPath, "bookclub.db"), nil)
	default:
		return nil, fmt.Errorf("unknown driver %q", opts.driver)
	}
}

func inspect(ctx context.Context, opts *options, out io.Writer) error {
	db, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	prefix := "device:"
	if opts.device != "" {
		prefix = store.DevicePrefix(opts.device)
	}

	devices := map[string]*device{}
	err = db.Scan(ctx, prefix, func(key, value string) error {
		rest := strings.TrimPrefix(key, "device:")
		id, name, ok := strings.Cut(rest, ":")
		if !ok {
			return nil
		}
		d := devices[id]
		if d == nil {
			d = &device{other: map[string]string{}}
			devices[id] = d
		}
		if opts.raw {
			d.other[name] = value
			return nil
		}
		switch name {
		case store.KeyUsers:
			if json.Unmarshal([]byte(value), &d.users) != nil {
				d.other[name] = value
			}
		case store.KeyPurchases:
			if json.Unmarshal([]byte(value), &d.purchases) != nil {
				d.other[name] = value
			}
		default:
			d.other[name] = value
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	ids := make([]string, 0, len(devices))
	for id := range devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(out, "=== Store Inspection ===")
	fmt.Fprintf(out, "Driver: %s\nDevices: %d\n", opts.driver, len(ids))

	for _, id := range ids {
		d := devices[id]
		fmt.Fprintf(out, "\nDevice: %s\n", id)
		if len(d.users) > 0 {
			fmt.Fprintf(out, "  Users: %d\n", len(d.users))
			for _, u := range d.users {
				fmt.Fprintf(out, "    - %s <%s>\n", u.FullName, u.Email)
			}
		}
		if len(d.purchases) > 0 {
			fmt.Fprintf(out, "  Purchases: %s\n", strings.Join(d.purchases, ", "))
		}

		keys := make([]string, 0, len(d.other))
		for k := range d.other {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s = %s\n", k, d.other[k])
		}
	}
	return nil
}
