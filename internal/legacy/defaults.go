package legacy

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// runFunc executes the defaults tool and returns its combined output
// without the final newline, and its exit code. err is set only when the
// tool could not be run.
type runFunc func(args ...string) (out string, code int, err error)

// toolOutput drops the newline `defaults` appends. Other whitespace belongs
// to the stored value.
func toolOutput(b []byte) string {
	return strings.TrimSuffix(string(b), "\n")
}

func execDefaults(args ...string) (string, int, error) {
	out, err := exec.Command("defaults", args...).CombinedOutput()
	s := toolOutput(out)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return s, exitErr.ExitCode(), nil
		}
		return s, -1, err
	}
	return s, 0, nil
}

// Defaults reads macOS UserDefaults for one domain through the `defaults`
// CLI. Exit status 1 from `defaults` means the key or domain is absent.
type Defaults struct {
	domain string
	run    runFunc
}

func NewDefaults(domain string) *Defaults {
	return &Defaults{domain: domain, run: execDefaults}
}

func (d *Defaults) read(key string) (string, bool, error) {
	out, code, err := d.run("read", d.domain, key)
	if err != nil {
		return "", false, fmt.Errorf("reading default for key '%s': %w", key, err)
	}
	switch code {
	case 0:
		return out, true, nil
	case 1:
		return "", false, nil
	}
	return "", false, fmt.Errorf("reading default for key '%s': exit status %d, output: %s", key, code, out)
}

// readType returns the UserDefaults type name ("integer", "float",
// "string", ...) or "" when the key is absent.
func (d *Defaults) readType(key string) (string, error) {
	out, code, err := d.run("read-type", d.domain, key)
	if err != nil {
		return "", fmt.Errorf("reading type for key '%s': %w", key, err)
	}
	switch code {
	case 0:
		return strings.TrimSpace(strings.TrimPrefix(out, "Type is ")), nil
	case 1:
		return "", nil
	}
	return "", fmt.Errorf("reading type for key '%s': exit status %d, output: %s", key, code, out)
}

func (d *Defaults) Has(key string) (bool, error) {
	_, ok, err := d.read(key)
	return ok, err
}

func (d *Defaults) GetInt(key string, def int) (int, error) {
	typ, err := d.readType(key)
	if err != nil || typ != "integer" {
		return def, err
	}
	s, ok, err := d.read(key)
	if !ok || err != nil {
		return def, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return i, nil
}

func (d *Defaults) GetFloat(key string, def float64) (float64, error) {
	typ, err := d.readType(key)
	if err != nil || typ != "float" {
		return def, err
	}
	s, ok, err := d.read(key)
	if !ok || err != nil {
		return def, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, fmt.Errorf("invalid float for %s: %w", key, err)
	}
	return f, nil
}

func (d *Defaults) GetString(key string, def string) (string, error) {
	typ, err := d.readType(key)
	if err != nil || typ != "string" {
		return def, err
	}
	s, ok, err := d.read(key)
	if !ok || err != nil {
		return def, err
	}
	return s, nil
}

func (d *Defaults) Delete(key string) error {
	out, code, err := d.run("delete", d.domain, key)
	if err != nil {
		return fmt.Errorf("deleting default for key '%s': %w", key, err)
	}
	if code > 1 {
		return fmt.Errorf("deleting default for key '%s': exit status %d, output: %s", key, code, out)
	}
	return nil
}

// DeleteAll removes the whole domain.
func (d *Defaults) DeleteAll() error {
	out, code, err := d.run("delete", d.domain)
	if err != nil {
		return fmt.Errorf("deleting defaults domain %s: %w", d.domain, err)
	}
	if code > 1 {
		return fmt.Errorf("deleting defaults domain %s: exit status %d, output: %s", d.domain, code, out)
	}
	return nil
}

func (d *Defaults) Close() error { return nil }
