package scan

import "testing"

func TestIsSystemIdentity(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"", true},
		{"  ", true},
		{"LocalSystem", true},
		{"localsystem", true},
		{"SYSTEM", true},
		{"System", true},
		{"NETWORK SERVICE", true},
		{"LOCAL SERVICE", true},
		{`NT AUTHORITY\LocalService`, true},
		{`NT SERVICE\MSSQLSERVER`, true},
		{`nt authority\system`, true},
		{`DOMAIN\svc_backup`, false},
		{`.\svcaccount`, false},
		{"svc_report@corp.example.com", false},
	}

	for _, tt := range tests {
		if got := IsSystemIdentity(tt.name); got != tt.want {
			t.Errorf("IsSystemIdentity(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsMicrosoftTaskPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{`\Microsoft\Windows\Defrag\ScheduledDefrag`, true},
		{`\Microsoft\SomeTask`, true},
		{`\NightlyReport`, false},
		{`\Vendor\Microsoft Sync`, false},
		{`\Backups\Nightly`, false},
	}

	for _, tt := range tests {
		if got := IsMicrosoftTaskPath(tt.path); got != tt.want {
			t.Errorf("IsMicrosoftTaskPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsExcludedTaskName(t *testing.T) {
	exclusions := ExclusionSet{"User_Feed_Synchronization", "Optimize Start Menu"}

	tests := []struct {
		name string
		want bool
	}{
		{"User_Feed_Synchronization-{GUID}", true},
		{"Optimize Start Menu Cache Files-S-1-5-21", true},
		{"NightlyReport", false},
		// Matching is case-sensitive; a single term matching is enough.
		{"user_feed_synchronization", false},
	}

	for _, tt := range tests {
		if got := IsExcludedTaskName(tt.name, exclusions); got != tt.want {
			t.Errorf("IsExcludedTaskName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if IsExcludedTaskName("anything", nil) {
		t.Error("empty exclusion set should exclude nothing")
	}
	if IsExcludedTaskName("anything", ExclusionSet{""}) {
		t.Error("blank exclusion entry should exclude nothing")
	}
}
