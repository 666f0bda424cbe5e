package store

import (
	"strings"
	"testing"
)

func TestRegistry_RegisterPreservesOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register("alpha", "CREATE TABLE IF NOT EXISTS alpha (id integer)")
	reg.Register("beta", "CREATE TABLE IF NOT EXISTS beta (id integer)")

	names := reg.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("Names() = %v, want [alpha beta]", names)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.Register("alpha", "CREATE TABLE IF NOT EXISTS alpha (id integer)")
	reg.Register("alpha", "CREATE TABLE IF NOT EXISTS alpha (other integer)")

	if reg.Len() != 1 {
		t.Fatalf("Len() = %d after duplicate register, want 1", reg.Len())
	}
	if !strings.Contains(reg.CreateScript(), "(id integer)") {
		t.Error("duplicate Register replaced the original DDL")
	}
}

func TestRegistry_CreateScript(t *testing.T) {
	reg := NewRegistry()
	reg.Register("alpha", "CREATE TABLE IF NOT EXISTS alpha (id integer)")
	reg.Register("beta", "CREATE TABLE IF NOT EXISTS beta (id integer)")

	script := reg.CreateScript()
	for _, want := range []string{
		"PRAGMA foreign_keys=OFF;",
		"BEGIN TRANSACTION;",
		"CREATE TABLE IF NOT EXISTS alpha (id integer);",
		"CREATE TABLE IF NOT EXISTS beta (id integer);",
		"COMMIT;",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("CreateScript() missing %q:\n%s", want, script)
		}
	}
	if strings.Index(script, "alpha") > strings.Index(script, "beta") {
		t.Error("CreateScript() ignores registration order")
	}
}
