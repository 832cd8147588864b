// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package wmiprocinfo // import "github.com/perfrate/perfrate/internal/wmiprocinfo"

import (
	"errors"
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

func NewManager() Manager {
	return &wmiProcInfoManager{queryer: wmiProcessQueryer{}}
}

var (
	ErrNoProcesses     = errors.New("no process info is currently registered")
	ErrProcessNotFound = errors.New("process info not found")
)

type wmiQueryer interface {
	wmiProcessQuery() (map[int64]string, error)
}

type wmiProcInfoManager struct {
	queryer   wmiQueryer
	instances map[int64]string
}

func (m *wmiProcInfoManager) Refresh() error {
	instances, err := m.queryer.wmiProcessQuery()
	if err != nil {
		return err
	}
	m.instances = instances
	return nil
}

func (m *wmiProcInfoManager) InstanceName(pid int64) (string, error) {
	if len(m.instances) == 0 {
		return "", ErrNoProcesses
	}
	name, ok := m.instances[pid]
	if !ok {
		return "", fmt.Errorf("%w for %d", ErrProcessNotFound, pid)
	}
	return name, nil
}

type wmiProcessQueryer struct{}

//revive:disable-next-line:var-naming
type Win32_PerfRawData_PerfProc_Process struct {
	Name      string
	IDProcess int64
}

func (wmiProcessQueryer) wmiProcessQuery() (map[int64]string, error) {
	processes := []Win32_PerfRawData_PerfProc_Process{}
	// Based on reflection of the struct, this creates the query
	// `select Name, IDProcess from Win32_PerfRawData_PerfProc_Process`.
	q := wmi.CreateQuery(&processes, "")
	err := wmi.Query(q, &processes)
	if err != nil {
		return nil, err
	}

	instances := make(map[int64]string, len(processes))
	for _, p := range processes {
		if p.Name == "_Total" || p.Name == "Idle" {
			continue
		}
		instances[p.IDProcess] = p.Name
	}
	return instances, nil
}
