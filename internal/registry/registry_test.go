package registry

import (
	"strings"
	"testing"

	"github.com/ballsim/ballsim/internal/config"
)

type testScenario struct {
	id string
}

func (s testScenario) ID() string          { return s.id }
func (s testScenario) Title() string       { return strings.ToUpper(s.id) }
func (s testScenario) Description() string { return "test scenario " + s.id }
func (s testScenario) Configure(cfg *config.SimConfig) {
	cfg.Balls.Count = 3
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-test-b", func() Scenario { return testScenario{"zz-test-b"} })
	Register("zz-test-a", func() Scenario { return testScenario{"zz-test-a"} })

	if !Exists("zz-test-a") || !Exists("zz-test-b") {
		t.Fatal("registered scenarios not found")
	}
	if Exists("zz-missing") {
		t.Error("unregistered scenario reported as existing")
	}

	s, err := Create("zz-test-a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID() != "zz-test-a" || s.Title() != "ZZ-TEST-A" {
		t.Errorf("unexpected scenario %q/%q", s.ID(), s.Title())
	}

	if _, err := Create("zz-missing"); err == nil {
		t.Error("expected error for unknown scenario")
	}

	list := List()
	ia, ib := -1, -1
	for i, info := range list {
		switch info.ID {
		case "zz-test-a":
			ia = i
			if info.Description != "test scenario zz-test-a" {
				t.Errorf("description %q", info.Description)
			}
		case "zz-test-b":
			ib = i
		}
	}
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("list not sorted or incomplete: %v", list)
	}

	cfg := config.Default()
	if err := Apply("zz-test-b", &cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Balls.Count != 3 {
		t.Errorf("Apply did not configure: count=%d", cfg.Balls.Count)
	}
	if err := Apply("zz-missing", &cfg); err == nil {
		t.Error("expected error applying unknown scenario")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Scenario { return testScenario{"zz-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("zz-dup", func() Scenario { return testScenario{"zz-dup"} })
}
