package scan

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeProber struct {
	unreachable map[string]bool
}

func (f *fakeProber) Reachable(host HostTarget) bool {
	return !f.unreachable[host.Name]
}

type fakeVersions struct {
	versions map[string][2]int
	err      error
}

func (f *fakeVersions) OSVersion(host HostTarget) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	v, ok := f.versions[host.Name]
	if !ok {
		return 10, 0, nil
	}
	return v[0], v[1], nil
}

func newTestOrchestrator(prober Prober, versions VersionQuerier, sq ServiceQuerier, tq TaskQuerier) *Orchestrator {
	logger := zap.NewNop()
	return NewOrchestrator(prober, versions,
		NewServiceSource(sq, logger),
		NewTaskSource(tq, ExclusionSet{"User_Feed_Synchronization"}, logger),
		logger)
}

func TestOrchestratorScenarioModernHost(t *testing.T) {
	services := &fakeServiceQuerier{
		modern: []RawService{
			{Name: "SvcBackup", StartName: `DOMAIN\svc_backup`, StartMode: "Auto", State: "Running"},
			{Name: "wuauserv", StartName: "LocalSystem", StartMode: "Manual", State: "Stopped"},
		},
	}
	tasks := &fakeTaskQuerier{
		modern: []RawTask{
			{Path: `\Microsoft\Windows\Defrag\ScheduledDefrag`, RunAsUser: "SYSTEM", Scheduled: "Enabled", State: "Ready"},
			{Path: `\NightlyReport`, RunAsUser: `DOMAIN\svc_report`, Scheduled: "Enabled", State: "Ready"},
		},
	}
	o := newTestOrchestrator(&fakeProber{}, &fakeVersions{}, services, tasks)

	statuses := o.Run([]HostTarget{{Name: "WEB01"}})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}

	st := statuses[0]
	if !st.Reachable {
		t.Error("WEB01 should be reachable")
	}
	if st.Capability != CapabilityModern {
		t.Errorf("capability = %v, want modern", st.Capability)
	}
	if st.Services != 1 || st.Tasks != 1 {
		t.Errorf("counts services=%d tasks=%d, want 1 and 1", st.Services, st.Tasks)
	}

	records := o.Results()
	if len(records) != 2 {
		t.Fatalf("expected exactly 2 records, got %d", len(records))
	}
	svc, task := records[0], records[1]
	if svc.Kind != KindService || svc.Name != "SvcBackup" || svc.StartName != `DOMAIN\svc_backup` || svc.TaskPath != TaskPathNone {
		t.Errorf("unexpected service record: %+v", svc)
	}
	if task.Kind != KindTask || task.Name != "NightlyReport" || task.StartName != `DOMAIN\svc_report` || task.TaskPath != `\NightlyReport` {
		t.Errorf("unexpected task record: %+v", task)
	}
	if svc.HostName != "WEB01" || task.HostName != "WEB01" {
		t.Error("host name not stamped on records")
	}
}

func TestOrchestratorUnreachableHostSkipped(t *testing.T) {
	services := &fakeServiceQuerier{
		modern: []RawService{{Name: "SvcBackup", StartName: `DOMAIN\svc_backup`}},
	}
	tasks := &fakeTaskQuerier{}
	prober := &fakeProber{unreachable: map[string]bool{"DOWN01": true}}
	o := newTestOrchestrator(prober, &fakeVersions{}, services, tasks)

	statuses := o.Run([]HostTarget{{Name: "DOWN01"}, {Name: "WEB01"}})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Reachable {
		t.Error("DOWN01 should report unreachable")
	}
	if statuses[0].Services != 0 || statuses[0].Tasks != 0 {
		t.Error("unreachable host must contribute no records")
	}
	if !statuses[1].Reachable {
		t.Error("WEB01 should still be processed after an unreachable host")
	}

	for _, r := range o.Results() {
		if r.HostName == "DOWN01" {
			t.Errorf("record leaked from unreachable host: %+v", r)
		}
	}
}

func TestOrchestratorLegacyHostNeverInvokesModern(t *testing.T) {
	services := &fakeServiceQuerier{
		legacy: []RawService{{Name: "SvcLegacy", StartName: `DOMAIN\svc_legacy`}},
	}
	tasks := &fakeTaskQuerier{
		legacy: []RawTask{{Path: `\OldReport`, RunAsUser: `DOMAIN\svc_old`, Scheduled: "Enabled", State: "Ready"}},
	}
	versions := &fakeVersions{versions: map[string][2]int{"OLD01": {6, 1}}}
	o := newTestOrchestrator(&fakeProber{}, versions, services, tasks)

	statuses := o.Run([]HostTarget{{Name: "OLD01"}})
	if statuses[0].Capability != CapabilityLegacy {
		t.Fatalf("capability = %v, want legacy", statuses[0].Capability)
	}
	if services.modernCalls != 0 || tasks.modernCalls != 0 {
		t.Errorf("modern backends called on legacy host: services=%d tasks=%d",
			services.modernCalls, tasks.modernCalls)
	}
	if len(o.Results()) != 2 {
		t.Errorf("expected 2 records, got %d", len(o.Results()))
	}
}

func TestOrchestratorVersionQueryFailureDegradesToLegacy(t *testing.T) {
	services := &fakeServiceQuerier{
		legacy: []RawService{{Name: "SvcBackup", StartName: `DOMAIN\svc_backup`}},
	}
	tasks := &fakeTaskQuerier{}
	versions := &fakeVersions{err: errors.New("WMI timeout")}
	o := newTestOrchestrator(&fakeProber{}, versions, services, tasks)

	statuses := o.Run([]HostTarget{{Name: "WEB01"}})
	st := statuses[0]
	if st.Capability != CapabilityLegacy {
		t.Errorf("capability = %v, want legacy when version query fails", st.Capability)
	}
	if len(st.Warnings) == 0 {
		t.Error("expected a warning about the failed version query")
	}
	if services.modernCalls != 0 {
		t.Error("modern service backend must not run when capability is unknown")
	}
}

func TestOrchestratorSourceFailureIsolated(t *testing.T) {
	services := &fakeServiceQuerier{
		modernErr: errors.New("RPC unavailable"),
		legacyErr: errors.New("access denied"),
	}
	tasks := &fakeTaskQuerier{
		modern: []RawTask{{Path: `\NightlyReport`, RunAsUser: `DOMAIN\svc_report`, Scheduled: "Enabled", State: "Ready"}},
	}
	o := newTestOrchestrator(&fakeProber{}, &fakeVersions{}, services, tasks)

	statuses := o.Run([]HostTarget{{Name: "WEB01"}})
	st := statuses[0]
	if st.Services != 0 {
		t.Errorf("failed source should contribute zero records, got %d", st.Services)
	}
	if st.Tasks != 1 {
		t.Errorf("other source should be unaffected, got %d task records", st.Tasks)
	}
	if len(st.Warnings) == 0 {
		t.Error("expected warnings from the failed source")
	}
}

func TestOrchestratorHostOrderPreserved(t *testing.T) {
	services := &fakeServiceQuerier{
		modern: []RawService{{Name: "Svc", StartName: `DOMAIN\svc`}},
	}
	tasks := &fakeTaskQuerier{
		modern: []RawTask{{Path: `\Job`, RunAsUser: `DOMAIN\job`, Scheduled: "Enabled", State: "Ready"}},
	}
	o := newTestOrchestrator(&fakeProber{}, &fakeVersions{}, services, tasks)

	o.Run([]HostTarget{{Name: "A01"}, {Name: "B01"}})

	records := o.Results()
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	wantOrder := []struct {
		host string
		kind RecordKind
	}{
		{"A01", KindService},
		{"A01", KindTask},
		{"B01", KindService},
		{"B01", KindTask},
	}
	for i, want := range wantOrder {
		if records[i].HostName != want.host || records[i].Kind != want.kind {
			t.Errorf("record %d = %s/%s, want %s/%s",
				i, records[i].HostName, records[i].Kind, want.host, want.kind)
		}
	}
}
