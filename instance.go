// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate // import "github.com/perfrate/perfrate"

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/perfrate/perfrate/internal/wmiprocinfo"
)

// Test seams, in the spirit of loadscraper's perfCounterFactory.
var (
	currentPid = func() int64 {
		return int64(os.Getpid())
	}
	currentExecutable = func() (string, error) {
		proc, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			return "", err
		}
		name, err := proc.Name()
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(name, filepath.Ext(name)), nil
	}
)

// InstanceName resolves which instance of the process object belongs
// to this process by probing each candidate's "ID Process" counter with
// a transient handle. It returns "" when no instance matches, and the
// caller falls back to opening the counter with the default instance.
// Only errors tagged fatal abort resolution; anything else is logged
// and skipped.
func (s *RateSampler) InstanceName(object string) (string, error) {
	names, err := s.provider.Instances(object)
	if err != nil {
		if IsFatal(err) {
			return "", err
		}
		s.logger.Warn("failed to enumerate process instances", zap.Error(err))
		return "", nil
	}

	pid := currentPid()
	for _, name := range narrowToExecutable(names, s.logger) {
		instancePid, err := s.probeInstancePid(object, name)
		if err != nil {
			if IsFatal(err) {
				return "", err
			}
			s.logger.Debug("skipping process instance", zap.String("instance", name), zap.Error(err))
			continue
		}
		if instancePid == pid {
			return name, nil
		}
	}

	// Probing can race with instance churn; ask WMI for the name it has
	// registered for this pid before giving up.
	if name, err := wmiInstanceName(pid); err != nil {
		s.logger.Debug("wmi instance lookup unavailable", zap.Error(err))
	} else if name != "" {
		return name, nil
	}

	s.logger.Warn("no process instance matches the current process; falling back to the default instance",
		zap.Int64("pid", pid))
	return "", nil
}

// probeInstancePid reads the pid registered under one instance. The
// transient handle is closed before returning regardless of outcome.
func (s *RateSampler) probeInstancePid(object, instance string) (pid int64, err error) {
	handle, err := s.provider.Open(CounterSpec{
		Object:   object,
		Counter:  processIDCounter,
		Instance: instance,
		ReadOnly: true,
	})
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Append(err, handle.Close())
	}()

	sample, err := handle.NextRawSample()
	if err != nil {
		return 0, err
	}
	return sample.Value, nil
}

// narrowToExecutable drops instances that cannot belong to the current
// executable. Process instances are named after the image, with #N
// suffixes distinguishing same-named processes. When nothing matches,
// or the executable name is unknown, every instance is probed.
func narrowToExecutable(names []string, logger *zap.Logger) []string {
	exe, err := currentExecutable()
	if err != nil {
		logger.Debug("could not determine the executable name; probing every instance", zap.Error(err))
		return names
	}

	var narrowed []string
	for _, name := range names {
		base := name
		if i := strings.IndexByte(base, '#'); i >= 0 {
			base = base[:i]
		}
		if strings.EqualFold(base, exe) {
			narrowed = append(narrowed, name)
		}
	}
	if len(narrowed) == 0 {
		return names
	}
	return narrowed
}

// wmiInstanceName asks WMI which perf instance is registered for pid.
// On platforms without WMI it reports ErrPlatformSupport.
var wmiInstanceName = func(pid int64) (string, error) {
	mgr := wmiprocinfo.NewManager()
	if err := mgr.Refresh(); err != nil {
		return "", err
	}
	name, err := mgr.InstanceName(pid)
	if err != nil {
		return "", err
	}
	return name, nil
}
