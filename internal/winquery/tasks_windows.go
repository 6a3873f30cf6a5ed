//go:build windows

package winquery

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/brittonthompson/serviceaccounts/internal/scan"
)

// Task Scheduler TASK_STATE values.
const (
	taskStateUnknown  = 0
	taskStateDisabled = 1
	taskStateQueued   = 2
	taskStateReady    = 3
	taskStateRunning  = 4
)

// QueryModern enumerates scheduled tasks through the Schedule.Service
// COM interface, walking the task folder tree from the root.
func (TaskQuery) QueryModern(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawTask, error) {
	var tasks []scan.RawTask
	err := withScheduleService(host, func(service *ole.IDispatch) error {
		rootVar, err := oleutil.CallMethod(service, "GetFolder", `\`)
		if err != nil {
			return fmt.Errorf("get root task folder: %w", err)
		}
		root := rootVar.ToIDispatch()
		defer root.Release()

		tasks, err = collectTaskFolder(root)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("winquery: task scheduler query on %s: %w", host.Name, err)
	}
	return tasks, nil
}

// withScheduleService runs action against a connected Schedule.Service
// COM object on a locked OS thread.
func withScheduleService(host scan.HostTarget, action func(service *ole.IDispatch) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return fmt.Errorf("initialize COM: %w", err)
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Schedule.Service")
	if err != nil {
		return fmt.Errorf("create Schedule.Service: %w", err)
	}
	defer unknown.Release()

	service, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("query Schedule.Service: %w", err)
	}
	defer service.Release()

	if host.IsLocal {
		_, err = oleutil.CallMethod(service, "Connect")
	} else {
		_, err = oleutil.CallMethod(service, "Connect", host.Name)
	}
	if err != nil {
		return fmt.Errorf("connect to task scheduler on %s: %w", host.Name, err)
	}

	return action(service)
}

// collectTaskFolder gathers the tasks in one folder and recurses into
// its subfolders.
func collectTaskFolder(folder *ole.IDispatch) ([]scan.RawTask, error) {
	var tasks []scan.RawTask

	// 1 = TASK_ENUM_HIDDEN
	tasksVar, err := oleutil.CallMethod(folder, "GetTasks", 1)
	if err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	collection := tasksVar.ToIDispatch()
	defer collection.Release()

	countVar, err := oleutil.GetProperty(collection, "Count")
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	count := int(countVar.Val)

	for i := 1; i <= count; i++ {
		itemVar, err := oleutil.GetProperty(collection, "Item", i)
		if err != nil {
			continue
		}
		task := itemVar.ToIDispatch()
		raw, err := projectRegisteredTask(task)
		task.Release()
		if err != nil {
			continue
		}
		tasks = append(tasks, raw)
	}

	foldersVar, err := oleutil.CallMethod(folder, "GetFolders", 0)
	if err != nil {
		return tasks, fmt.Errorf("get task subfolders: %w", err)
	}
	folders := foldersVar.ToIDispatch()
	defer folders.Release()

	folderCountVar, err := oleutil.GetProperty(folders, "Count")
	if err != nil {
		return tasks, fmt.Errorf("count task subfolders: %w", err)
	}
	for i := 1; i <= int(folderCountVar.Val); i++ {
		subVar, err := oleutil.GetProperty(folders, "Item", i)
		if err != nil {
			continue
		}
		sub := subVar.ToIDispatch()
		subTasks, err := collectTaskFolder(sub)
		sub.Release()
		if err != nil {
			continue
		}
		tasks = append(tasks, subTasks...)
	}

	return tasks, nil
}

// projectRegisteredTask reads the properties we need from an
// IRegisteredTask dispatch.
func projectRegisteredTask(task *ole.IDispatch) (scan.RawTask, error) {
	pathVar, err := oleutil.GetProperty(task, "Path")
	if err != nil {
		return scan.RawTask{}, fmt.Errorf("task path: %w", err)
	}
	raw := scan.RawTask{Path: pathVar.ToString()}

	if stateVar, err := oleutil.GetProperty(task, "State"); err == nil {
		raw.State = taskStateString(int(stateVar.Val))
	}
	raw.Scheduled = "Enabled"
	if enabledVar, err := oleutil.GetProperty(task, "Enabled"); err == nil {
		if enabled, ok := enabledVar.Value().(bool); ok && !enabled {
			raw.Scheduled = "Disabled"
		}
	}

	defVar, err := oleutil.GetProperty(task, "Definition")
	if err != nil {
		return raw, nil
	}
	definition := defVar.ToIDispatch()
	defer definition.Release()

	principalVar, err := oleutil.GetProperty(definition, "Principal")
	if err != nil {
		return raw, nil
	}
	principal := principalVar.ToIDispatch()
	defer principal.Release()

	if userVar, err := oleutil.GetProperty(principal, "UserId"); err == nil {
		raw.RunAsUser = userVar.ToString()
	}
	return raw, nil
}

func taskStateString(state int) string {
	switch state {
	case taskStateDisabled:
		return "Disabled"
	case taskStateQueued:
		return "Queued"
	case taskStateReady:
		return "Ready"
	case taskStateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// QueryLegacy enumerates scheduled tasks by running schtasks.exe and
// parsing its verbose CSV listing. The remote variant passes /S.
func (TaskQuery) QueryLegacy(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawTask, error) {
	args := []string{"/Query", "/FO", "CSV", "/V"}
	if !host.IsLocal {
		args = append(args, "/S", host.Name)
	}

	output, err := runSchtasks(args...)
	if err != nil {
		if strings.Contains(err.Error(), "no scheduled task") {
			return nil, nil
		}
		return nil, fmt.Errorf("winquery: schtasks on %s: %w", host.Name, err)
	}
	return ParseSchtasksCSV(output)
}

// runSchtasks executes schtasks.exe with the given arguments.
func runSchtasks(args ...string) (string, error) {
	cmd := exec.Command("schtasks.exe", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", fmt.Errorf("schtasks failed: %s", errMsg)
	}
	return stdout.String(), nil
}
