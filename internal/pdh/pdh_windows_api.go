// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package pdh // import "github.com/perfrate/perfrate/internal/pdh"

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

type (
	pdhQueryHandle   uintptr
	pdhCounterHandle uintptr
)

const (
	errorSuccess uint32 = 0x0

	pdhCstatusValidData        uint32 = 0x0
	pdhCstatusNewData          uint32 = 0x1
	pdhMoreData                uint32 = 0x800007D2
	pdhMemoryAllocationFailure uint32 = 0xC0000BBB

	perfDetailWizard uint32 = 400

	// winperf.h type word fields.
	perfTypeMask      uint32 = 0x00000C00
	perfTypeCounter   uint32 = 0x00000400
	perfDisplayMask   uint32 = 0x70000000
	perfDisplayPerSec uint32 = 0x10000000
	perfDisplayPct    uint32 = 0x20000000
)

// IsRate reports whether the winperf type word describes a counter
// whose raw value is only meaningful relative to elapsed time.
func IsRate(dwType uint32) bool {
	return dwType&perfTypeMask == perfTypeCounter
}

// DisplaysPerSecond reports whether the counter is shown as a per
// second rate.
func DisplaysPerSecond(dwType uint32) bool {
	return dwType&perfDisplayMask == perfDisplayPerSec
}

// DisplaysPercent reports whether the counter is shown as a percentage.
func DisplaysPercent(dwType uint32) bool {
	return dwType&perfDisplayMask == perfDisplayPct
}

// Error is a failing PDH call together with its status code.
type Error struct {
	Call   string
	Status uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed with %#x", e.Call, e.Status)
}

func newPdhError(call string, status uint32) error {
	return &Error{Call: call, Status: status}
}

// IsAllocationFailure reports whether err is a PDH memory allocation
// failure, the one status that indicates the process rather than the
// counter is in trouble.
func IsAllocationFailure(err error) bool {
	var pdhErr *Error
	return errors.As(err, &pdhErr) && pdhErr.Status == pdhMemoryAllocationFailure
}

// PDH_RAW_COUNTER
type pdhRawCounter struct {
	CStatus     uint32
	TimeStamp   windows.Filetime
	FirstValue  int64
	SecondValue int64
	MultiCount  uint32
}

// Leading fields of PDH_COUNTER_INFO; the trailing name and explain
// pointers are never read.
type pdhCounterInfo struct {
	DwLength uint32
	DwType   uint32
	CVersion uint32
	CStatus  uint32
}

var (
	pdhDLL = windows.NewLazySystemDLL("pdh.dll")

	pdhOpenQueryProc          = pdhDLL.NewProc("PdhOpenQueryW")
	pdhAddEnglishCounterProc  = pdhDLL.NewProc("PdhAddEnglishCounterW")
	pdhCollectQueryDataProc   = pdhDLL.NewProc("PdhCollectQueryData")
	pdhGetRawCounterValueProc = pdhDLL.NewProc("PdhGetRawCounterValue")
	pdhGetCounterInfoProc     = pdhDLL.NewProc("PdhGetCounterInfoW")
	pdhCloseQueryProc         = pdhDLL.NewProc("PdhCloseQuery")
	pdhEnumObjectItemsProc    = pdhDLL.NewProc("PdhEnumObjectItemsW")
)

func pdhOpenQuery(userData uintptr, query *pdhQueryHandle) uint32 {
	ret, _, _ := pdhOpenQueryProc.Call(
		0,
		userData,
		uintptr(unsafe.Pointer(query)))
	return uint32(ret)
}

func pdhAddEnglishCounter(query pdhQueryHandle, path string, userData uintptr, handle *pdhCounterHandle) uint32 {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return pdhMoreData
	}
	ret, _, _ := pdhAddEnglishCounterProc.Call(
		uintptr(query),
		uintptr(unsafe.Pointer(pathPtr)),
		userData,
		uintptr(unsafe.Pointer(handle)))
	return uint32(ret)
}

func pdhCollectQueryData(query pdhQueryHandle) uint32 {
	ret, _, _ := pdhCollectQueryDataProc.Call(uintptr(query))
	return uint32(ret)
}

func pdhGetRawCounterValue(handle pdhCounterHandle, counterType *uint32, value *pdhRawCounter) uint32 {
	ret, _, _ := pdhGetRawCounterValueProc.Call(
		uintptr(handle),
		uintptr(unsafe.Pointer(counterType)),
		uintptr(unsafe.Pointer(value)))
	return uint32(ret)
}

func pdhCloseQuery(query pdhQueryHandle) uint32 {
	ret, _, _ := pdhCloseQueryProc.Call(uintptr(query))
	return uint32(ret)
}

// counterInfoType fetches the winperf type word for an added counter.
func counterInfoType(handle pdhCounterHandle) (uint32, error) {
	var bufSize uint32
	ret, _, _ := pdhGetCounterInfoProc.Call(
		uintptr(handle),
		0,
		uintptr(unsafe.Pointer(&bufSize)),
		0)
	if status := uint32(ret); status != pdhMoreData {
		return 0, newPdhError("PdhGetCounterInfo", status)
	}

	buf := make([]byte, bufSize)
	ret, _, _ = pdhGetCounterInfoProc.Call(
		uintptr(handle),
		0,
		uintptr(unsafe.Pointer(&bufSize)),
		uintptr(unsafe.Pointer(&buf[0])))
	if status := uint32(ret); status != errorSuccess {
		return 0, newPdhError("PdhGetCounterInfo", status)
	}

	info := (*pdhCounterInfo)(unsafe.Pointer(&buf[0]))
	return info.DwType, nil
}

func pdhEnumObjectItems(object string, counterList *uint16, counterLen *uint32, instanceList *uint16, instanceLen *uint32) uint32 {
	objectPtr, err := windows.UTF16PtrFromString(object)
	if err != nil {
		return pdhMoreData
	}
	ret, _, _ := pdhEnumObjectItemsProc.Call(
		0, // local data source
		0, // local machine
		uintptr(unsafe.Pointer(objectPtr)),
		uintptr(unsafe.Pointer(counterList)),
		uintptr(unsafe.Pointer(counterLen)),
		uintptr(unsafe.Pointer(instanceList)),
		uintptr(unsafe.Pointer(instanceLen)),
		uintptr(perfDetailWizard),
		0)
	return uint32(ret)
}

func bufPtr(buf []uint16) *uint16 {
	if len(buf) == 0 {
		return nil
	}
	return &buf[0]
}
