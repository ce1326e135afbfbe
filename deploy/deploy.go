// Package deploy pushes built binaries to a provisioned host and waits for
// its first boot to finish.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"bench-harness/config"
	"bench-harness/utils"
)

// ErrProvisioningFailed is returned when the remote boot status reports an
// explicit error. It is never retried.
var ErrProvisioningFailed = errors.New("provisioning failed")

// DefaultPollInterval paces both the dial retries and the boot status polls.
const DefaultPollInterval = 5 * time.Second

const (
	remoteRoot = "/usr/src/app"
	statusCmd  = "cloud-init status"
)

// Runner executes one command per call on the remote host.
type Runner interface {
	Run(command string) (string, error)
	Close() error
}

// Copier transfers local files to remote paths.
type Copier interface {
	Put(local, remote string) error
	Close() error
}

// Dialer opens protocol sessions against one host.
type Dialer interface {
	Runner() (Runner, error)
	Copier() (Copier, error)
}

// Deployer uploads artifacts to Host and polls it for readiness. A nil Dial
// falls back to SSH sessions as User with KeyPath.
type Deployer struct {
	Host         string
	User         string
	KeyPath      string
	Dial         Dialer
	PollInterval time.Duration
}

type transfer struct {
	local  string
	remote string
}

// Upload resolves the framework's binaries patterns and copies every match
// under /usr/src/app on the host, preserving relative structure. Remote
// directories are created in one command session, then the files move in a
// separate copy session.
func (d Deployer) Upload(root, language, framework string) error {
	cfg, err := config.Resolve(root, language, framework)
	if err != nil {
		return err
	}
	dir := filepath.Join(root, language, framework)
	transfers, err := collect(dir, cfg.Strings("binaries"))
	if err != nil {
		return err
	}
	if len(transfers) == 0 {
		klog.V(4).Infof("[deploy] no binaries declared for %s/%s", language, framework)
		return nil
	}

	runner, err := d.dialer().Runner()
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, tr := range transfers {
		parent := path.Dir(tr.remote)
		if seen[parent] {
			continue
		}
		seen[parent] = true
		if _, err := runner.Run("mkdir -p " + parent); err != nil {
			runner.Close()
			return fmt.Errorf("creating %s on %s: %w", parent, d.Host, err)
		}
	}
	if err := runner.Close(); err != nil {
		return err
	}

	copier, err := d.dialer().Copier()
	if err != nil {
		return err
	}
	defer copier.Close()
	for _, tr := range transfers {
		klog.Infof("Uploading %s to %s:%s", tr.local, d.Host, tr.remote)
		if err := copier.Put(tr.local, tr.remote); err != nil {
			return fmt.Errorf("uploading %s: %w", tr.local, err)
		}
	}
	return nil
}

// WaitReady blocks until the host's first boot reports done. Refused and
// unreachable dials are retried every poll interval without bound; cancel
// ctx to give up. Any other dial failure surfaces immediately, as does a
// boot status containing "error".
func (d Deployer) WaitReady(ctx context.Context) error {
	interval := d.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var runner Runner
	for runner == nil {
		var err error
		runner, err = d.dialer().Runner()
		if err != nil {
			if !retryableDial(err) {
				return fmt.Errorf("connecting to %s: %w", d.Host, err)
			}
			klog.V(4).Infof("[deploy] %s not reachable yet: %v", d.Host, err)
			if err := wait(ctx, interval); err != nil {
				return err
			}
		}
	}
	defer runner.Close()

	for {
		// The status command exits non-zero when boot failed, so the output
		// is inspected before the command error.
		out, err := runner.Run(statusCmd)
		switch {
		case strings.Contains(out, "done"):
			klog.Infof("Host %s finished provisioning", d.Host)
			return nil
		case strings.Contains(out, "error"):
			return fmt.Errorf("%w on %s: %s", ErrProvisioningFailed, d.Host, strings.TrimSpace(out))
		}
		if err != nil {
			return err
		}
		klog.V(4).Infof("[deploy] %s still booting: %s", d.Host, strings.TrimSpace(out))
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
}

func (d Deployer) dialer() Dialer {
	if d.Dial != nil {
		return d.Dial
	}
	return SSHDialer{Addr: d.Host + ":22", User: d.User, KeyPath: d.KeyPath}
}

// retryableDial reports whether a dial failure means the host is simply not
// up or not routable yet. Anything else (a bad key path, a rejected
// handshake, an unknown host) surfaces to the caller.
func retryableDial(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// collect expands the binaries patterns and maps every regular file onto its
// remote path.
func collect(dir string, patterns []string) ([]transfer, error) {
	var transfers []transfer
	for _, pattern := range patterns {
		matches, err := utils.Expand(dir, pattern)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			err := filepath.WalkDir(match, func(p string, entry os.DirEntry, err error) error {
				if err != nil || entry.IsDir() {
					return err
				}
				rel, err := filepath.Rel(dir, p)
				if err != nil {
					return err
				}
				transfers = append(transfers, transfer{
					local:  p,
					remote: path.Join(remoteRoot, filepath.ToSlash(rel)),
				})
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return transfers, nil
}

func wait(ctx context.Context, interval time.Duration) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
